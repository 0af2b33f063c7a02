// registry.go implements the phrase registry.
//
// Separated from key.go and card.go to isolate binding state from the value
// types. The registry is the only code that attaches or detaches an owned
// card, and it only does so as a side effect of an activation transition.
//
// Design: Matching and activation are driven from one goroutine (the
// shell's update loop or the CLI goroutine), but the host API lets
// extension goroutines register and unregister at any time, so the
// binding table sits behind a mutex. Extension callbacks always run with
// the mutex released: a callback may call back into the registry, and a
// slow callback never blocks a registration. A failed Register leaves the
// registry untouched.

package phrase

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jpl-au/sulaiman/internal/log"
	"go.uber.org/zap"
)

// ActivateFunc runs when a phrase becomes fully matched. Returning false
// vetoes activation and the card stays hidden.
type ActivateFunc = func(card *Card, phrase, argument, trailing string) bool

// CommitFunc runs when the user confirms a suggestion for the phrase.
type CommitFunc = func(card *Card, argument, trailing string) Intent

// Intent tells the input field what to do after a commit. The zero value
// keeps the text and blurs the input.
type Intent struct {
	ClearInput bool
	KeepFocus  bool
}

// Phrase is a registered binding.
type Phrase struct {
	key        Key
	args       []string
	card       *Card
	onActivate ActivateFunc
	onCommit   CommitFunc
	owner      string
	active     atomic.Bool
}

// Key returns the phrase key.
func (p *Phrase) Key() Key { return p.key }

// Arguments returns the allowed argument literals in declaration order.
func (p *Phrase) Arguments() []string { return p.args }

// Owner returns the name of the extension that registered the phrase.
func (p *Phrase) Owner() string { return p.owner }

// Active reports whether the phrase's card is currently shown.
func (p *Phrase) Active() bool { return p.active.Load() }

// Handle is returned by Register and proves ownership for Unregister.
type Handle struct {
	key  Key
	card *Card
}

// Key returns the phrase key the handle was issued for.
func (h *Handle) Key() string { return h.key.String() }

// Registry holds phrase bindings.
type Registry struct {
	mu      sync.Mutex
	stage   Stage
	logger  *zap.Logger
	phrases map[string]*Phrase
	order   []*Phrase
}

// Option configures a Registry.
type Option func(*Registry)

// WithStage sets where activated cards are attached.
func WithStage(s Stage) Option {
	return func(r *Registry) { r.stage = s }
}

// WithLogger sets the diagnostic logger for callback failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// New creates an empty registry. Without WithStage cards go nowhere.
func New(opts ...Option) *Registry {
	r := &Registry{
		stage:   Headless,
		logger:  zap.NewNop(),
		phrases: make(map[string]*Phrase),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetStage swaps the attachment point. Cards already attached stay on the
// old stage; call before any activation.
func (r *Registry) SetStage(s Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stage = s
}

// RegisterOption configures a single registration.
type RegisterOption func(*Phrase)

// Owner records which extension registered the phrase.
func Owner(name string) RegisterOption {
	return func(p *Phrase) { p.owner = name }
}

// Register binds key to the callbacks and returns a handle for Unregister.
// The registry creates the card; callbacks receive it.
func (r *Registry) Register(key any, args []string, onActivate ActivateFunc, onCommit CommitFunc, opts ...RegisterOption) (*Handle, error) {
	r.mu.Lock()
	p, err := r.build(key, args, onActivate, onCommit, opts)
	if err == nil {
		r.phrases[p.key.Fold()] = p
		r.order = append(r.order, p)
	}
	r.mu.Unlock()

	l := log.Event("phrase:register", "register").Phrase(fmt.Sprint(key))
	if p != nil {
		l.Extension(p.owner)
	}
	l.Detail("arguments", len(args)).Write(err)
	if err != nil {
		return nil, err
	}
	return &Handle{key: p.key, card: p.card}, nil
}

func (r *Registry) build(key any, args []string, onActivate ActivateFunc, onCommit CommitFunc, opts []RegisterOption) (*Phrase, error) {
	k, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	if k.IsPattern() && len(args) > 0 {
		return nil, fmt.Errorf("%w: pattern phrases take no arguments", ErrPhraseTypeInvalid)
	}
	for _, a := range args {
		if err := validateArgument(a); err != nil {
			return nil, err
		}
	}
	if _, exists := r.phrases[k.Fold()]; exists {
		return nil, fmt.Errorf("%w: %s", ErrPhraseAlreadyRegistered, k)
	}

	p := &Phrase{
		key:        k,
		args:       slices.Clone(args),
		card:       &Card{owned: true},
		onActivate: onActivate,
		onCommit:   onCommit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Unregister removes the binding the handle was issued for and returns its
// card free for general use. The card is detached first if it is shown.
func (r *Registry) Unregister(h *Handle) (Free, error) {
	if h == nil {
		return Free{}, ErrNotOwner
	}
	r.mu.Lock()
	p, ok := r.phrases[h.key.Fold()]
	ok = ok && p.card == h.card
	if ok {
		r.remove(p)
	}
	r.mu.Unlock()
	if !ok {
		err := fmt.Errorf("%w: %s", ErrNotOwner, h.key)
		log.Event("phrase:unregister", "unregister").Phrase(h.key.String()).Write(err)
		return Free{}, err
	}

	log.Event("phrase:unregister", "unregister").Extension(p.owner).Phrase(p.key.String()).Write(nil)
	return Free{card: p.card}, nil
}

// UnregisterAll removes every phrase registered by owner. Used when an
// extension fails partway through start-up.
func (r *Registry) UnregisterAll(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var victims []*Phrase
	for _, p := range r.order {
		if p.owner == owner {
			victims = append(victims, p)
		}
	}
	for _, p := range victims {
		r.remove(p)
	}
	return len(victims)
}

// remove unbinds p. Callers hold r.mu.
func (r *Registry) remove(p *Phrase) {
	if p.card.setAttached(false) {
		r.stage.Detach(View{card: p.card})
	}
	p.active.Store(false)
	p.card.setOwned(false)
	delete(r.phrases, p.key.Fold())
	if i := slices.Index(r.order, p); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// IsRegistered reports whether key is bound. Invalid keys are never bound.
func (r *Registry) IsRegistered(key any) bool {
	k, err := ParseKey(key)
	if err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.phrases[k.Fold()]
	return ok
}

// Lookup returns the phrase bound to a folded key.
func (r *Registry) Lookup(fold string) (*Phrase, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.phrases[fold]
	return p, ok
}

// Phrases returns the bindings in registration order. The slice is a copy;
// callbacks may register or unregister while the caller iterates.
func (r *Registry) Phrases() []*Phrase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}

// Len returns the number of registered phrases.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Activate runs onActivate for p and, unless vetoed, attaches its card.
// Returns true only on an Inactive -> Active transition.
func (r *Registry) Activate(p *Phrase, phrase, argument, trailing string) bool {
	if p.Active() || !r.isCurrent(p) {
		return false
	}
	ok := r.callActivate(p, phrase, argument, trailing)

	r.mu.Lock()
	// The callback may have unregistered its own phrase.
	if !ok || !r.current(p) || !p.active.CompareAndSwap(false, true) {
		r.mu.Unlock()
		return false
	}
	if p.card.setAttached(true) {
		r.stage.Attach(View{card: p.card})
	}
	r.mu.Unlock()

	log.Event("phrase:activate", "activate").Extension(p.owner).Phrase(p.key.String()).
		Argument(argument).Trailing(trailing).Write(nil)
	return true
}

// Deactivate detaches p's card. Returns true only on an Active -> Inactive
// transition, so repeated calls never detach twice.
func (r *Registry) Deactivate(p *Phrase) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !p.active.CompareAndSwap(true, false) {
		return false
	}
	if p.card.setAttached(false) {
		r.stage.Detach(View{card: p.card})
	}
	return true
}

// Commit runs onCommit for p and returns the requested input intent.
func (r *Registry) Commit(p *Phrase, argument, trailing string) Intent {
	if p.onCommit == nil || !r.isCurrent(p) {
		return Intent{}
	}
	var intent Intent
	err := r.guard(p, "commit", func() {
		intent = p.onCommit(p.card, argument, trailing)
	})
	log.Event("phrase:commit", "commit").Extension(p.owner).Phrase(p.key.String()).
		Argument(argument).Trailing(trailing).Write(err)
	return intent
}

func (r *Registry) callActivate(p *Phrase, phrase, argument, trailing string) bool {
	if p.onActivate == nil {
		return true
	}
	var ok bool
	if err := r.guard(p, "activate", func() {
		ok = p.onActivate(p.card, phrase, argument, trailing)
	}); err != nil {
		return false
	}
	return ok
}

// guard runs an extension callback, converting a panic into an error so a
// misbehaving extension cannot take the shell down.
func (r *Registry) guard(p *Phrase, what string, fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%s callback panicked: %v", what, v)
			r.logger.Error("phrase callback failed",
				zap.String("extension", p.owner),
				zap.String("phrase", p.key.String()),
				zap.String("callback", what),
				zap.Any("panic", v))
		}
	}()
	fn()
	return nil
}

// isCurrent is current for callers not holding r.mu.
func (r *Registry) isCurrent(p *Phrase) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current(p)
}

// current reports whether p is still the binding on record for its key.
// Callers hold r.mu.
func (r *Registry) current(p *Phrase) bool {
	return r.phrases[p.key.Fold()] == p
}
