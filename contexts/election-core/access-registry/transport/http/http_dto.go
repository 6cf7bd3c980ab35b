package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AdminRequest struct {
	Identity string `json:"identity"`
}

type AdminResponse struct {
	Identity string `json:"identity"`
	IsAdmin  bool   `json:"is_admin"`
}

type AdminListItem struct {
	Identity  string `json:"identity"`
	IsOwner   bool   `json:"is_owner"`
	GrantedBy string `json:"granted_by,omitempty"`
	GrantedAt int64  `json:"granted_at"`
}

type AdminListResponse struct {
	Owner  string          `json:"owner"`
	Admins []AdminListItem `json:"admins"`
}
