package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gigboard/marketplace-core/internal/core/domain"
	"github.com/gigboard/marketplace-core/internal/core/ports"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory stand-in for the document store. Transactions run
// one at a time against a private copy and are published only on success.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	directory map[string]*domain.DirectoryEntry
	counters  *domain.Counters

	jobs      map[string]*domain.Job
	proposals map[string]*domain.Proposal
	projects  map[string]*domain.Project

	// failTxOn makes the named OnboardingTx method fail inside transactions.
	failTxOn string
	// conflicts is the number of upcoming transactions rejected as conflicting.
	conflicts int
	txRuns    int

	failMirror        bool
	failCreateProp    bool
	failCreateProject bool
	failCredit        bool
	failCreditReasons map[string]bool

	// afterFindJob runs outside the lock after every successful FindJob.
	afterFindJob func()
}

func newMemStore() *memStore {
	return &memStore{
		users:             make(map[string]*domain.User),
		directory:         make(map[string]*domain.DirectoryEntry),
		jobs:              make(map[string]*domain.Job),
		proposals:         make(map[string]*domain.Proposal),
		projects:          make(map[string]*domain.Project),
		failCreditReasons: make(map[string]bool),
	}
}

func (s *memStore) addUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u.Clone()
}

func (s *memStore) user(id string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id].Clone()
}

func (s *memStore) entry(id string) *domain.DirectoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntry(s.directory[id])
}

func (s *memStore) deleteEntry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.directory, id)
}

func (s *memStore) storedCounters() *domain.Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters == nil {
		return nil
	}
	c := *s.counters
	return &c
}

func cloneEntry(e *domain.DirectoryEntry) *domain.DirectoryEntry {
	if e == nil {
		return nil
	}
	c := *e
	c.Ledger = e.Ledger.Clone()
	c.Profile.Skills = append([]string(nil), e.Profile.Skills...)
	return &c
}

// ── OnboardingRepository ─────────────────────────────────────────────────────

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.OnboardingTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txRuns++
	if s.conflicts > 0 {
		s.conflicts--
		return domain.ErrTransactionConflict
	}

	tx := &memTx{
		failOn:    s.failTxOn,
		users:     make(map[string]*domain.User, len(s.users)),
		directory: make(map[string]*domain.DirectoryEntry, len(s.directory)),
	}
	for k, v := range s.users {
		tx.users[k] = v.Clone()
	}
	for k, v := range s.directory {
		tx.directory[k] = cloneEntry(v)
	}
	if s.counters != nil {
		c := *s.counters
		tx.counters = &c
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.users = tx.users
	s.directory = tx.directory
	s.counters = tx.counters
	return nil
}

type memTx struct {
	failOn    string
	users     map[string]*domain.User
	directory map[string]*domain.DirectoryEntry
	counters  *domain.Counters
}

func (t *memTx) fail(op string) error {
	if t.failOn == op {
		return errInjected
	}
	return nil
}

func (t *memTx) FindUser(_ context.Context, userID string) (*domain.User, error) {
	if err := t.fail("FindUser"); err != nil {
		return nil, err
	}
	u, ok := t.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (t *memTx) LoadCounters(context.Context) (domain.Counters, error) {
	if err := t.fail("LoadCounters"); err != nil {
		return domain.Counters{}, err
	}
	if t.counters == nil {
		return domain.Counters{}, nil
	}
	return *t.counters, nil
}

func (t *memTx) DirectoryEntryExists(_ context.Context, role domain.Role, identifier string) (bool, error) {
	if err := t.fail("DirectoryEntryExists"); err != nil {
		return false, err
	}
	e, ok := t.directory[identifier]
	return ok && e.Role == role, nil
}

func (t *memTx) PutDirectoryEntry(_ context.Context, entry *domain.DirectoryEntry) error {
	if err := t.fail("PutDirectoryEntry"); err != nil {
		return err
	}
	t.directory[entry.Identifier] = cloneEntry(entry)
	return nil
}

func (t *memTx) SaveCounters(_ context.Context, counters domain.Counters) error {
	if err := t.fail("SaveCounters"); err != nil {
		return err
	}
	t.counters = &counters
	return nil
}

func (t *memTx) SaveUser(_ context.Context, user *domain.User) error {
	if err := t.fail("SaveUser"); err != nil {
		return err
	}
	t.users[user.ID] = user.Clone()
	return nil
}

// ── UserRepository ───────────────────────────────────────────────────────────

func (s *memStore) FindByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *memStore) InitializeLedger(_ context.Context, userID string, ledger *domain.Ledger) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.Ledger != nil {
		return nil, domain.ErrLedgerExists
	}
	u.Ledger = ledger.Clone()
	return u.Clone(), nil
}

func (s *memStore) ApplyDebit(_ context.Context, userID string, entry domain.LedgerEntry) (*domain.User, error) {
	return s.applyEntry(userID, entry)
}

func (s *memStore) ApplyCredit(_ context.Context, userID string, entry domain.LedgerEntry) (*domain.User, error) {
	s.mu.Lock()
	fail := s.failCredit || s.failCreditReasons[entry.Reason]
	s.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	return s.applyEntry(userID, entry)
}

func (s *memStore) applyEntry(userID string, entry domain.LedgerEntry) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.Ledger == nil {
		return nil, domain.ErrUserNotFound
	}
	next := u.Ledger.Clone()
	if err := next.Apply(entry); err != nil {
		return nil, err
	}
	u.Ledger = next
	return u.Clone(), nil
}

// ── DirectoryRepository ──────────────────────────────────────────────────────

func (s *memStore) FindByIdentifier(_ context.Context, role domain.Role, identifier string) (*domain.DirectoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.directory[identifier]
	if !ok || e.Role != role {
		return nil, domain.ErrDirectoryEntryNotFound
	}
	return cloneEntry(e), nil
}

func (s *memStore) UpdateLedger(_ context.Context, identifier string, ledger *domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMirror {
		return errInjected
	}
	e, ok := s.directory[identifier]
	if !ok {
		return domain.ErrDirectoryEntryNotFound
	}
	if e.Ledger != nil && len(e.Ledger.History) > len(ledger.History) {
		return nil
	}
	e.Ledger = ledger.Clone()
	return nil
}

func (s *memStore) ReplaceLedger(_ context.Context, identifier string, ledger *domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.directory[identifier]
	if !ok {
		return domain.ErrDirectoryEntryNotFound
	}
	e.Ledger = ledger.Clone()
	return nil
}

// ── Marketplace repositories ─────────────────────────────────────────────────

func (s *memStore) CreateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *job
	s.jobs[job.ID] = &c
	return nil
}

func (s *memStore) FindJob(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.Lock()
	j, ok := s.jobs[jobID]
	var c domain.Job
	if ok {
		c = *j
	}
	hook := s.afterFindJob
	s.mu.Unlock()

	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if hook != nil {
		hook()
	}
	return &c, nil
}

func (s *memStore) UpdateJobStatus(_ context.Context, jobID string, from, to domain.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}
	if j.Status != from {
		return domain.ErrJobClosed
	}
	j.Status = to
	return nil
}

func (s *memStore) CreateProposal(_ context.Context, p *domain.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateProp {
		return errInjected
	}
	for _, existing := range s.proposals {
		if existing.JobID == p.JobID && existing.FreelancerUserID == p.FreelancerUserID {
			return domain.ErrDuplicateProposal
		}
	}
	c := *p
	s.proposals[p.ID] = &c
	return nil
}

func (s *memStore) FindProposal(_ context.Context, proposalID string) (*domain.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[proposalID]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	c := *p
	return &c, nil
}

func (s *memStore) ExistsForFreelancer(_ context.Context, jobID, freelancerUserID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.proposals {
		if p.JobID == jobID && p.FreelancerUserID == freelancerUserID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) UpdateProposalStatus(_ context.Context, proposalID string, from, to domain.ProposalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[proposalID]
	if !ok {
		return domain.ErrProposalNotFound
	}
	if p.Status != from {
		return domain.ErrProposalNotPending
	}
	p.Status = to
	return nil
}

func (s *memStore) CreateProject(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateProject {
		return errInjected
	}
	c := *p
	s.projects[p.ID] = &c
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) NextID() string {
	return "e" + strconv.FormatInt(g.n.Add(1), 10)
}

type stubGuard struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func newStubGuard() *stubGuard {
	return &stubGuard{held: make(map[string]bool)}
}

func (g *stubGuard) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
