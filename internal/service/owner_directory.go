package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

// ResolvedOwner is the concrete athlete or staff member behind a document.
type ResolvedOwner struct {
	Owner  compliance.Owner
	Name   string
	Active bool
	// Email is the owner's own address; only staff are notified directly.
	Email string
}

// OwnerResolver looks up one kind of document owner.
type OwnerResolver interface {
	Lookup(ctx context.Context, id string) (*ResolvedOwner, error)
	// Recipients returns the addresses that should hear about an owner
	// already returned by Lookup. Inactive owners have none.
	Recipients(ctx context.Context, owner *ResolvedOwner) ([]string, error)
}

// OwnerDirectory dispatches owner lookups to the resolver registered for each kind.
type OwnerDirectory struct {
	resolvers map[compliance.OwnerKind]OwnerResolver
}

// NewOwnerDirectory builds a directory from a resolver table.
func NewOwnerDirectory(resolvers map[compliance.OwnerKind]OwnerResolver) *OwnerDirectory {
	table := make(map[compliance.OwnerKind]OwnerResolver, len(resolvers))
	for kind, r := range resolvers {
		table[kind] = r
	}
	return &OwnerDirectory{resolvers: table}
}

func (d *OwnerDirectory) resolver(kind compliance.OwnerKind) (OwnerResolver, error) {
	r, ok := d.resolvers[kind]
	if !ok {
		return nil, appErrors.NewValidation("unsupported owner kind", map[string]string{"ownerKind": string(kind)})
	}
	return r, nil
}

// Lookup resolves owner or returns a NOT_FOUND error.
func (d *OwnerDirectory) Lookup(ctx context.Context, owner compliance.Owner) (*ResolvedOwner, error) {
	r, err := d.resolver(owner.Kind)
	if err != nil {
		return nil, err
	}
	return r.Lookup(ctx, owner.ID)
}

// Recipients returns the notification addresses for a resolved owner.
func (d *OwnerDirectory) Recipients(ctx context.Context, owner *ResolvedOwner) ([]string, error) {
	if owner == nil || !owner.Active {
		return nil, nil
	}
	r, err := d.resolver(owner.Owner.Kind)
	if err != nil {
		return nil, err
	}
	return r.Recipients(ctx, owner)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", what))
}

type athleteFinder interface {
	FindByID(ctx context.Context, id string) (*models.Athlete, error)
}

type guardianLister interface {
	ListContactable(ctx context.Context, athleteID string) ([]models.Guardian, error)
}

// AthleteOwnerResolver resolves athlete owners and notifies their guardians.
type AthleteOwnerResolver struct {
	athletes  athleteFinder
	guardians guardianLister
}

// NewAthleteOwnerResolver constructs an AthleteOwnerResolver.
func NewAthleteOwnerResolver(athletes athleteFinder, guardians guardianLister) *AthleteOwnerResolver {
	return &AthleteOwnerResolver{athletes: athletes, guardians: guardians}
}

func (r *AthleteOwnerResolver) Lookup(ctx context.Context, id string) (*ResolvedOwner, error) {
	athlete, err := r.athletes.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "athlete")
	}
	return &ResolvedOwner{
		Owner:  compliance.Owner{Kind: compliance.OwnerAthlete, ID: athlete.ID},
		Name:   athlete.FullName(),
		Active: athlete.Active,
	}, nil
}

func (r *AthleteOwnerResolver) Recipients(ctx context.Context, owner *ResolvedOwner) ([]string, error) {
	if !owner.Active {
		return nil, nil
	}
	guardians, err := r.guardians.ListContactable(ctx, owner.Owner.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guardians")
	}
	recipients := make([]string, 0, len(guardians))
	for _, g := range guardians {
		if g.Active && g.Email != nil && *g.Email != "" {
			recipients = append(recipients, *g.Email)
		}
	}
	return recipients, nil
}

type staffFinder interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

// StaffOwnerResolver resolves staff owners, who are notified directly.
type StaffOwnerResolver struct {
	staff staffFinder
}

// NewStaffOwnerResolver constructs a StaffOwnerResolver.
func NewStaffOwnerResolver(staff staffFinder) *StaffOwnerResolver {
	return &StaffOwnerResolver{staff: staff}
}

func (r *StaffOwnerResolver) Lookup(ctx context.Context, id string) (*ResolvedOwner, error) {
	member, err := r.staff.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "staff member")
	}
	owner := &ResolvedOwner{
		Owner:  compliance.Owner{Kind: compliance.OwnerStaff, ID: member.ID},
		Name:   member.FullName(),
		Active: member.Active,
	}
	if member.Email != nil {
		owner.Email = *member.Email
	}
	return owner, nil
}

func (r *StaffOwnerResolver) Recipients(_ context.Context, owner *ResolvedOwner) ([]string, error) {
	if !owner.Active || owner.Email == "" {
		return nil, nil
	}
	return []string{owner.Email}, nil
}
