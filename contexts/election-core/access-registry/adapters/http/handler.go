package httpadapter

import (
	"context"
	"log/slog"

	"chainvotes/contexts/election-core/access-registry/application"
	httptransport "chainvotes/contexts/election-core/access-registry/transport/http"
)

type Handler struct {
	Admins application.Service
	Logger *slog.Logger
}

func (h Handler) AddAdminHandler(ctx context.Context, caller string, req httptransport.AdminRequest) error {
	return h.Admins.AddAdmin(ctx, caller, req.Identity)
}

func (h Handler) RemoveAdminHandler(ctx context.Context, caller string, req httptransport.AdminRequest) error {
	return h.Admins.RemoveAdmin(ctx, caller, req.Identity)
}

func (h Handler) IsAdminHandler(ctx context.Context, identity string) (httptransport.AdminResponse, error) {
	isAdmin, err := h.Admins.IsAdmin(ctx, identity)
	if err != nil {
		return httptransport.AdminResponse{}, err
	}
	return httptransport.AdminResponse{
		Identity: application.NormalizeIdentity(identity),
		IsAdmin:  isAdmin,
	}, nil
}

func (h Handler) ListAdminsHandler(ctx context.Context) (httptransport.AdminListResponse, error) {
	owner, err := h.Admins.Owner(ctx)
	if err != nil {
		return httptransport.AdminListResponse{}, err
	}
	admins, err := h.Admins.ListAdmins(ctx)
	if err != nil {
		return httptransport.AdminListResponse{}, err
	}

	items := make([]httptransport.AdminListItem, 0, len(admins))
	for _, admin := range admins {
		items = append(items, httptransport.AdminListItem{
			Identity:  admin.Identity,
			IsOwner:   admin.IsOwner,
			GrantedBy: admin.GrantedBy,
			GrantedAt: admin.GrantedAt.Unix(),
		})
	}
	return httptransport.AdminListResponse{
		Owner:  owner,
		Admins: items,
	}, nil
}
