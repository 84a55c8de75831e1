package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/persistence"
	"github.com/spec-kit/library-service/internal/repository"
)

type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*domain.User
	// findErr is returned by FindByEmail when set.
	findErr error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byMail: map[string]*domain.User{}}
}

func (m *memAccounts) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[user.Email]; ok {
		return repository.ErrDuplicate
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.byMail[user.Email] = &cp
	return nil
}

func (m *memAccounts) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[user.Email]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	m.byMail[user.Email] = &cp
	return nil
}

func (m *memAccounts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, u := range m.byMail {
		if u.ID == id {
			delete(m.byMail, email)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byMail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memAccounts) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byMail)), nil
}

type memBooks struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Book
	gets   int
}

func newMemBooks(books ...domain.Book) *memBooks {
	m := &memBooks{byID: map[int64]domain.Book{}}
	for i := range books {
		_ = m.Create(context.Background(), &books[i])
	}
	return m
}

func (m *memBooks) Create(_ context.Context, book *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	book.ID = m.nextID
	m.byID[book.ID] = *book
	return nil
}

func (m *memBooks) Update(_ context.Context, book *domain.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[book.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[book.ID] = *book
	return nil
}

func (m *memBooks) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memBooks) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	b, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (m *memBooks) GetByIDs(_ context.Context, ids []int64) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Book
	for _, id := range ids {
		if b, ok := m.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) all() []domain.Book {
	out := make([]domain.Book, 0, len(m.byID))
	for _, b := range m.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memBooks) List(_ context.Context, s domain.BookSort, limit, offset int) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	books := m.all()
	sort.SliceStable(books, func(i, j int) bool {
		switch s {
		case domain.BookSortAuthor:
			return books[i].Author < books[j].Author
		case domain.BookSortID:
			return books[i].ID < books[j].ID
		default:
			return books[i].Title < books[j].Title
		}
	})
	if offset >= len(books) {
		return nil, nil
	}
	end := offset + limit
	if end > len(books) {
		end = len(books)
	}
	return books[offset:end], nil
}

func (m *memBooks) Search(_ context.Context, keyword string) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kw := strings.ToLower(strings.TrimSpace(keyword))
	var out []domain.Book
	for _, b := range m.all() {
		if kw == "" || strings.Contains(strings.ToLower(b.Title), kw) || strings.Contains(strings.ToLower(b.Author), kw) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) ListByGenre(_ context.Context, genre string) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Book
	for _, b := range m.all() {
		if strings.EqualFold(b.Genre, genre) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBooks) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memBooks) TopGenre(context.Context) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, b := range m.byID {
		if b.Genre != "" {
			counts[b.Genre]++
		}
	}
	var best string
	for g, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && g < best) {
			best = g
		}
	}
	if best == "" {
		return nil, nil
	}
	return &best, nil
}

type memReviews struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Review
	emails map[int64]string
}

func newMemReviews() *memReviews {
	return &memReviews{byID: map[int64]domain.Review{}, emails: map[int64]string{}}
}

func (m *memReviews) Create(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.UserID == r.UserID && existing.BookID == r.BookID {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	r.ID = m.nextID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.byID[r.ID] = *r
	return nil
}

func (m *memReviews) Update(_ context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[r.ID] = *r
	return nil
}

func (m *memReviews) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memReviews) GetByUserAndBook(_ context.Context, userID, bookID int64) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.byID {
		if r.UserID == userID && r.BookID == bookID {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memReviews) ListByBook(_ context.Context, bookID int64) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.byID {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memReviews) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memReviews) CountSince(_ context.Context, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.byID {
		if r.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (m *memReviews) AverageRating(context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.byID) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range m.byID {
		sum += r.Rating
	}
	return float64(sum) / float64(len(m.byID)), nil
}

func (m *memReviews) TopReviewer(context.Context) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[int64]int{}
	for _, r := range m.byID {
		counts[r.UserID]++
	}
	var best int64
	for uid, n := range counts {
		if best == 0 || n > counts[best] || (n == counts[best] && uid < best) {
			best = uid
		}
	}
	if best == 0 {
		return nil, nil
	}
	email := m.emails[best]
	return &email, nil
}

func (m *memReviews) averages() map[int64]float64 {
	sums := map[int64]int{}
	counts := map[int64]int{}
	for _, r := range m.byID {
		sums[r.BookID] += r.Rating
		counts[r.BookID]++
	}
	avg := map[int64]float64{}
	for id, n := range counts {
		avg[id] = float64(sums[id]) / float64(n)
	}
	return avg
}

func (m *memReviews) TopRatedBookIDs(_ context.Context, limit, offset int) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	avg := m.averages()
	ids := make([]int64, 0, len(avg))
	for id := range avg {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if avg[ids[i]] != avg[ids[j]] {
			return avg[ids[i]] > avg[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if offset >= len(ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], nil
}

func (m *memReviews) CountReviewedBooks(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.averages())), nil
}

type memFavorites struct {
	mu    sync.Mutex
	books *memBooks
	set   map[[2]int64]bool
}

func newMemFavorites(books *memBooks) *memFavorites {
	return &memFavorites{books: books, set: map[[2]int64]bool{}}
}

func (m *memFavorites) Add(_ context.Context, userID, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set[[2]int64{userID, bookID}] = true
	return nil
}

func (m *memFavorites) Remove(_ context.Context, userID, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.set, [2]int64{userID, bookID})
	return nil
}

func (m *memFavorites) ListBooks(ctx context.Context, userID int64) ([]domain.Book, error) {
	m.mu.Lock()
	var ids []int64
	for k := range m.set {
		if k[0] == userID {
			ids = append(ids, k[1])
		}
	}
	m.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return m.books.GetByIDs(ctx, ids)
}

type memHistory struct {
	mu      sync.Mutex
	books   *memBooks
	entries []domain.HistoryEntry
	err     error
}

func newMemHistory(books *memBooks) *memHistory {
	return &memHistory{books: books}
}

func (m *memHistory) Record(_ context.Context, entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memHistory) ListBooks(ctx context.Context, userID int64) ([]domain.Book, error) {
	m.mu.Lock()
	var ids []int64
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			ids = append(ids, m.entries[i].BookID)
		}
	}
	m.mu.Unlock()
	var out []domain.Book
	for _, id := range ids {
		b, err := m.books.GetByID(ctx, id)
		if err == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

type memCache struct {
	mu    sync.Mutex
	books map[int64]domain.Book
}

func newMemCache() *memCache {
	return &memCache{books: map[int64]domain.Book{}}
}

func (c *memCache) Get(_ context.Context, id int64) (*domain.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.books[id]
	if !ok {
		return nil, persistence.ErrCacheMiss
	}
	return &b, nil
}

func (c *memCache) Set(_ context.Context, book *domain.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books[book.ID] = *book
	return nil
}

func (c *memCache) Invalidate(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.books, id)
	return nil
}
