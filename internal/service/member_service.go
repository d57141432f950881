package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/internal/models"
	"github.com/mmynk/mealpoints/internal/storage"
	"github.com/mmynk/mealpoints/pkg/api"
	"github.com/mmynk/mealpoints/pkg/api/apiconnect"
)

var _ apiconnect.MemberServiceHandler = (*MemberService)(nil)

// MemberService implements the Connect MemberService.
type MemberService struct {
	store storage.Store
}

// NewMemberService creates a new MemberService with the given storage backend.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store}
}

// ListMembers returns the roster.
func (s *MemberService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	slog.Info("ListMembers request received", "active_only", req.Msg.ActiveOnly)

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		slog.Error("ListMembers failed", "error", err)
		return nil, toConnectError(err)
	}

	if req.Msg.ActiveOnly {
		active := members[:0]
		for _, m := range members {
			if m.Active {
				active = append(active, m)
			}
		}
		members = active
	}

	return connect.NewResponse(&api.ListMembersResponse{
		Members: membersToAPI(members),
	}), nil
}

// CreateMember adds one member to the roster.
func (s *MemberService) CreateMember(ctx context.Context, req *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error) {
	slog.Info("CreateMember request received", "name", req.Msg.Name)

	name, err := validateMemberName(req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}

	member := &models.Member{Name: name}
	if err := s.store.CreateMember(ctx, member); err != nil {
		slog.Error("CreateMember failed", "name", name, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member created", "member_id", member.ID, "name", member.Name)

	return connect.NewResponse(&api.CreateMemberResponse{
		Member: memberToAPI(member),
	}), nil
}

// CreateMembers adds every name not already on the roster and returns the
// full roster afterwards.
func (s *MemberService) CreateMembers(ctx context.Context, req *connect.Request[api.CreateMembersRequest]) (*connect.Response[api.CreateMembersResponse], error) {
	slog.Info("CreateMembers request received", "names_count", len(req.Msg.Names))

	if len(req.Msg.Names) == 0 {
		verr := &ValidationError{}
		verr.add("names", "at least one name is required")
		return nil, toConnectError(verr)
	}

	names := make([]string, 0, len(req.Msg.Names))
	for _, raw := range req.Msg.Names {
		name, err := validateMemberName(raw)
		if err != nil {
			return nil, toConnectError(err)
		}
		names = append(names, name)
	}

	added, err := s.addMissing(ctx, names)
	if err != nil {
		slog.Error("CreateMembers failed", "error", err)
		return nil, toConnectError(err)
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		slog.Error("CreateMembers failed to list roster", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Members created", "added", added, "roster_size", len(members))

	return connect.NewResponse(&api.CreateMembersResponse{
		Members: membersToAPI(members),
	}), nil
}

// DeleteMember deactivates a member. Their past attendance keeps counting.
func (s *MemberService) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	slog.Info("DeleteMember request received", "member_id", req.Msg.MemberId)

	if err := s.store.DeactivateMember(ctx, req.Msg.MemberId); err != nil {
		slog.Error("DeleteMember failed", "member_id", req.Msg.MemberId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member deactivated", "member_id", req.Msg.MemberId)

	return connect.NewResponse(&api.DeleteMemberResponse{}), nil
}

// SeedRoster adds names when the roster is completely empty. It is used at
// startup so a fresh deployment has someone to select.
func (s *MemberService) SeedRoster(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return nil
	}

	valid := make([]string, 0, len(names))
	for _, raw := range names {
		name, err := validateMemberName(raw)
		if err != nil {
			slog.Warn("Skipping invalid seed member", "name", raw, "error", err)
			continue
		}
		valid = append(valid, name)
	}

	added, err := s.addMissing(ctx, valid)
	if err != nil {
		return err
	}
	slog.Info("Roster seeded", "added", added)
	return nil
}

// addMissing creates members for names not yet taken and reports how many were added.
func (s *MemberService) addMissing(ctx context.Context, names []string) (int, error) {
	existing, err := s.store.ListMembers(ctx)
	if err != nil {
		return 0, err
	}
	taken := make(map[string]bool, len(existing)+len(names))
	for _, m := range existing {
		taken[m.Name] = true
	}

	added := 0
	for _, name := range names {
		if taken[name] {
			continue
		}
		err := s.store.CreateMember(ctx, &models.Member{Name: name})
		if errors.Is(err, storage.ErrAlreadyExists) {
			// Added concurrently since the roster was read
			taken[name] = true
			continue
		}
		if err != nil {
			return added, err
		}
		taken[name] = true
		added++
	}
	return added, nil
}
