package listings

import (
	"context"
	"strings"
	"time"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/fault"
	"staybook/internal/domain/user"
)

var (
	ErrNotFound            = fault.New(fault.KindNotFound, "listings: not found")
	ErrTitleRequired       = fault.New(fault.KindValidation, "listings: title is required")
	ErrDescriptionRequired = fault.New(fault.KindValidation, "listings: description is required")
	ErrLocationRequired    = fault.New(fault.KindValidation, "listings: location is required")
	ErrNightlyRate         = fault.New(fault.KindValidation, "listings: nightly rate must be positive")
	ErrInvalidWindow       = fault.New(fault.KindValidation, "listings: availability window end must be after start")
	ErrNotOwner            = fault.New(fault.KindForbidden, "listings: actor is not the owning host")
)

type ID string

// Window optionally bounds when a listing accepts stays. A zero Window
// imposes no bound.
type Window struct {
	From  time.Time
	Until time.Time
}

func (w Window) IsZero() bool { return w.From.IsZero() && w.Until.IsZero() }

func (w Window) Validate() error {
	if w.IsZero() {
		return nil
	}
	if !w.From.IsZero() && !w.Until.IsZero() && !w.Until.After(w.From) {
		return ErrInvalidWindow
	}
	return nil
}

// Allows reports whether the stay fits inside the window. Open-ended sides
// are unbounded.
func (w Window) Allows(dr daterange.DateRange) bool {
	if !w.From.IsZero() && dr.CheckIn.Before(daterange.Midnight(w.From)) {
		return false
	}
	if !w.Until.IsZero() && dr.CheckOut.After(daterange.Midnight(w.Until)) {
		return false
	}
	return true
}

type Listing struct {
	ID               ID
	Host             user.ID
	Title            string
	Description      string
	Location         string
	NightlyRateCents int64
	Images           []string
	Window           Window
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Filter struct {
	Location    string
	MinCents    int64
	MaxCents    int64
	ExcludeHost user.ID
	Page        int
	Limit       int
}

// Normalized clamps pagination to sane bounds.
func (f Filter) Normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	f.Location = strings.TrimSpace(f.Location)
	return f
}

type Page struct {
	Items      []*Listing
	Total      int
	Page       int
	TotalPages int
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id ID) error
	ByHost(ctx context.Context, host user.ID) ([]*Listing, error)
	Search(ctx context.Context, filter Filter) (Page, error)
}

type CreateParams struct {
	ID               ID
	Host             user.ID
	Title            string
	Description      string
	Location         string
	NightlyRateCents int64
	Images           []string
	Window           Window
	Now              time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if params.NightlyRateCents <= 0 {
		return nil, ErrNightlyRate
	}
	if err := params.Window.Validate(); err != nil {
		return nil, err
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Listing{
		ID:               params.ID,
		Host:             params.Host,
		Title:            title,
		Description:      description,
		Location:         location,
		NightlyRateCents: params.NightlyRateCents,
		Images:           append([]string(nil), params.Images...),
		Window:           params.Window,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

type UpdateParams struct {
	Title            string
	Description      string
	Location         string
	NightlyRateCents int64
	Window           *Window
}

// Apply merges non-empty update fields, mirroring partial updates on the
// HTTP surface. Ownership is enforced by the caller.
func (l *Listing) Apply(params UpdateParams, now time.Time) error {
	if t := strings.TrimSpace(params.Title); t != "" {
		l.Title = t
	}
	if d := strings.TrimSpace(params.Description); d != "" {
		l.Description = d
	}
	if loc := strings.TrimSpace(params.Location); loc != "" {
		l.Location = loc
	}
	if params.NightlyRateCents != 0 {
		if params.NightlyRateCents < 0 {
			return ErrNightlyRate
		}
		l.NightlyRateCents = params.NightlyRateCents
	}
	if params.Window != nil {
		if err := params.Window.Validate(); err != nil {
			return err
		}
		l.Window = *params.Window
	}
	l.touch(now)
	return nil
}

// AppendImages keeps existing images and adds new references in order.
func (l *Listing) AppendImages(urls []string, now time.Time) {
	if len(urls) == 0 {
		return
	}
	l.Images = append(l.Images, urls...)
	l.touch(now)
}

func (l *Listing) OwnedBy(actor user.ID) bool { return l.Host == actor }

func (l *Listing) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	l.UpdatedAt = now.UTC()
}
