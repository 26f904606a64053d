package controller

import (
	"context"
	"slices"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
)

const (
	// BioMaxLen is the longest bio the profile form accepts, in characters.
	BioMaxLen = 120

	NoticeProfileUpdated = "Profile updated"

	FieldEmail = "email"
	FieldBio   = "bio"
)

// ProfileDraft is the editable part of the logged-in user.
type ProfileDraft struct {
	Name  string
	Email string
	Bio   string
}

// ProfileStats summarizes the user's collections.
type ProfileStats struct {
	Collections int
	Items       int
	MostRecent  *api.Collection
}

// ProfileAPI is what Profile needs.
type ProfileAPI interface {
	UpdateUser(ctx context.Context, id api.ID, input api.UserUpdate) (*api.User, error)
	ListCollections(ctx context.Context, userID api.ID) ([]api.Collection, error)
}

// Profile edits the logged-in user's name, email and bio.
type Profile struct {
	gate Sessions
	api  ProfileAPI
	log  *zap.Logger

	mu          sync.Mutex
	user        api.User
	draft       ProfileDraft
	collections []api.Collection
	err         error
	notice      string
}

func NewProfile(client ProfileAPI, gate Sessions, log *zap.Logger) *Profile {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profile{gate: gate, api: client, log: log.Named("profile"), collections: []api.Collection{}}
}

// Mount hydrates the form from the session and loads the collections used
// for the summary. A failed collection load only empties the summary.
func (p *Profile) Mount(ctx context.Context) (Route, error) {
	sess, err := requireSession(ctx, p.gate)
	if err != nil {
		return RouteLogin, err
	}

	p.mu.Lock()
	p.user = sess.User
	p.draft = ProfileDraft{Name: sess.User.Name, Email: sess.User.Email, Bio: sess.User.Bio}
	p.err = nil
	p.notice = ""
	p.mu.Unlock()

	cols, err := p.api.ListCollections(ctx, sess.User.ID)
	if ctx.Err() != nil {
		return RouteNone, ctx.Err()
	}
	if err != nil {
		p.log.Warn("load collections failed", zap.Error(err))
		cols = []api.Collection{}
	}

	p.mu.Lock()
	p.collections = cols
	p.mu.Unlock()
	return RouteNone, nil
}

// ChangeField edits one field. The bio is cut at BioMaxLen characters.
func (p *Profile) ChangeField(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch name {
	case FieldName:
		p.draft.Name = value
	case FieldEmail:
		p.draft.Email = value
	case FieldBio:
		if utf8.RuneCountInString(value) > BioMaxLen {
			value = string([]rune(value)[:BioMaxLen])
		}
		p.draft.Bio = value
	default:
		return
	}
	p.notice = ""
}

// Submit saves the draft. On success the stored session is updated and the
// form shows what the server returned.
func (p *Profile) Submit(ctx context.Context) (bool, error) {
	sess, err := requireSession(ctx, p.gate)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	draft := p.draft
	p.mu.Unlock()

	updated, err := p.api.UpdateUser(ctx, sess.User.ID, api.UserUpdate{
		Name:  draft.Name,
		Email: draft.Email,
		Bio:   draft.Bio,
	})
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		p.mu.Lock()
		p.err = err
		p.notice = ""
		p.mu.Unlock()
		return false, err
	}

	merged, err := p.gate.Merge(ctx, *updated)
	if err != nil {
		p.log.Warn("session merge failed", zap.Error(err))
		merged.User = *updated
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = merged.User
	p.draft = ProfileDraft{Name: updated.Name, Email: updated.Email, Bio: updated.Bio}
	p.err = nil
	p.notice = NoticeProfileUpdated
	return true, nil
}

func (p *Profile) Draft() ProfileDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

func (p *Profile) User() api.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

func (p *Profile) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Profile) Notice() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notice
}

func (p *Profile) Collections() []api.Collection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.collections)
}

func (p *Profile) Stats() ProfileStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return SummarizeCollections(p.collections)
}

// SummarizeCollections counts collections and items. The most recent
// collection is the last one in list order.
func SummarizeCollections(cols []api.Collection) ProfileStats {
	stats := ProfileStats{Collections: len(cols)}
	for _, c := range cols {
		stats.Items += c.ItemCount
	}
	if len(cols) > 0 {
		last := cols[len(cols)-1]
		stats.MostRecent = &last
	}
	return stats
}
