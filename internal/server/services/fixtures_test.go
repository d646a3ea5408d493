package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/VictoryTek/humidor-sub001/internal/common"
	"github.com/VictoryTek/humidor-sub001/internal/dbx"
	"github.com/VictoryTek/humidor-sub001/internal/logging"
	"github.com/VictoryTek/humidor-sub001/internal/server/models"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/brands"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/cigars"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/humidors"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/lists"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/publicshares"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/shares"
	"github.com/VictoryTek/humidor-sub001/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// expectTx arms the mock for one committed transaction. The in-memory fakes
// below never touch the db handle, so Begin/Commit is all sqlmock sees.
func expectTx(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- in-memory repositories ---
//
// The fakes hold state in maps so multi-step scenarios (grant, walk the
// tiers, revoke) run against one consistent world. Error injection fields
// override the happy path where a test needs a failure.

type memStore struct {
	seq          int
	users        map[string]*models.User
	humidors     map[string]*models.Humidor
	cigars       map[string]*models.Cigar
	shares       map[string]*models.HumidorShare // humidorID + "/" + userID
	publicShares map[string]*models.PublicShare
	brands       map[string]*models.Brand
	marks        map[lists.Kind]map[string]map[string]bool // kind -> userID -> cigarID
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]*models.User{},
		humidors:     map[string]*models.Humidor{},
		cigars:       map[string]*models.Cigar{},
		shares:       map[string]*models.HumidorShare{},
		publicShares: map[string]*models.PublicShare{},
		brands:       map[string]*models.Brand{},
		marks: map[lists.Kind]map[string]map[string]bool{
			lists.KindFavorites: {},
			lists.KindWishList:  {},
		},
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

func (s *memStore) addUser(u *models.User) *models.User {
	if u.ID == "" {
		u.ID = s.nextID()
	}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addHumidor(h *models.Humidor) *models.Humidor {
	if h.ID == "" {
		h.ID = s.nextID()
	}
	s.humidors[h.ID] = h
	return h
}

func (s *memStore) addCigar(c *models.Cigar) *models.Cigar {
	if c.ID == "" {
		c.ID = s.nextID()
	}
	s.cigars[c.ID] = c
	return c
}

func (s *memStore) addShare(sh *models.HumidorShare) *models.HumidorShare {
	if sh.ID == "" {
		sh.ID = s.nextID()
	}
	s.shares[sh.HumidorID+"/"+sh.UserID] = sh
	return sh
}

type memUsersRepo struct {
	s   *memStore
	err error
}

func (r *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.s.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrorConflict
		}
	}
	return r.s.addUser(u), nil
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUsersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.s.users {
		if u.UserName == userName {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) Count(ctx context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.s.users)), nil
}

func (r *memUsersRepo) CountActiveAdminsExcluding(ctx context.Context, userID string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, u := range r.s.users {
		if u.ID != userID && u.IsAdmin && u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *memUsersRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	if r.err != nil {
		return r.err
	}
	existing, ok := r.s.users[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	for _, other := range r.s.users {
		if other.ID != user.ID && (other.UserName == user.UserName || other.Email == user.Email) {
			return common.ErrorConflict
		}
	}
	existing.UserName = user.UserName
	existing.Email = user.Email
	existing.FullName = user.FullName
	return nil
}

func (r *memUsersRepo) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsAdmin = isAdmin
	return nil
}

func (r *memUsersRepo) SetActive(ctx context.Context, userID string, isActive bool) error {
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsActive = isActive
	return nil
}

func (r *memUsersRepo) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memHumidorsRepo struct {
	s   *memStore
	err error
}

func (r *memHumidorsRepo) Create(ctx context.Context, h *models.Humidor) (*models.Humidor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.s.addHumidor(h), nil
}

func (r *memHumidorsRepo) GetByID(ctx context.Context, id string) (*models.Humidor, error) {
	if r.err != nil {
		return nil, r.err
	}
	h, ok := r.s.humidors[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return h, nil
}

func (r *memHumidorsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Humidor, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Humidor
	for _, h := range r.s.humidors {
		if h.UserID == ownerID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memHumidorsRepo) ListSharedWith(ctx context.Context, userID string) ([]*humidors.SharedHumidor, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*humidors.SharedHumidor
	for _, sh := range r.s.shares {
		if sh.UserID != userID {
			continue
		}
		if h, ok := r.s.humidors[sh.HumidorID]; ok {
			out = append(out, &humidors.SharedHumidor{Humidor: h, Level: sh.Level})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Humidor.ID < out[j].Humidor.ID })
	return out, nil
}

func (r *memHumidorsRepo) Update(ctx context.Context, h *models.Humidor) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.humidors[h.ID]; !ok {
		return common.ErrorNotFound
	}
	r.s.humidors[h.ID] = h
	return nil
}

func (r *memHumidorsRepo) SetImageKey(ctx context.Context, id string, imageKey string) error {
	h, ok := r.s.humidors[id]
	if !ok {
		return common.ErrorNotFound
	}
	h.ImageKey = imageKey
	return nil
}

func (r *memHumidorsRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.humidors[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.humidors, id)
	for cid, c := range r.s.cigars {
		if c.HumidorID == id {
			delete(r.s.cigars, cid)
		}
	}
	for k, sh := range r.s.shares {
		if sh.HumidorID == id {
			delete(r.s.shares, k)
		}
	}
	for tid, ps := range r.s.publicShares {
		if ps.HumidorID == id {
			delete(r.s.publicShares, tid)
		}
	}
	return nil
}

func (r *memHumidorsRepo) ReassignOwner(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, h := range r.s.humidors {
		if h.UserID == fromUserID {
			h.UserID = toUserID
			n++
		}
	}
	return n, nil
}

type memCigarsRepo struct {
	s   *memStore
	err error
}

func (r *memCigarsRepo) Create(ctx context.Context, c *models.Cigar) (*models.Cigar, error) {
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.s.humidors[c.HumidorID]; !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.addCigar(c), nil
}

func (r *memCigarsRepo) GetByID(ctx context.Context, id string) (*models.Cigar, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.s.cigars[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return c, nil
}

func (r *memCigarsRepo) ListByHumidor(ctx context.Context, humidorID string) ([]*models.Cigar, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Cigar
	for _, c := range r.s.cigars {
		if c.HumidorID == humidorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCigarsRepo) Update(ctx context.Context, c *models.Cigar) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.cigars[c.ID]; !ok {
		return common.ErrorNotFound
	}
	r.s.cigars[c.ID] = c
	return nil
}

func (r *memCigarsRepo) SetImageKey(ctx context.Context, id string, imageKey string) error {
	c, ok := r.s.cigars[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.ImageKey = imageKey
	return nil
}

func (r *memCigarsRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.cigars[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.cigars, id)
	return nil
}

func (r *memCigarsRepo) Move(ctx context.Context, id string, destHumidorID string) error {
	if r.err != nil {
		return r.err
	}
	c, ok := r.s.cigars[id]
	if !ok {
		return common.ErrorNotFound
	}
	if _, ok := r.s.humidors[destHumidorID]; !ok {
		return common.ErrorNotFound
	}
	c.HumidorID = destHumidorID
	return nil
}

func (r *memCigarsRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, c := range r.s.cigars {
		if h, ok := r.s.humidors[c.HumidorID]; ok && h.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

type memSharesRepo struct {
	s   *memStore
	err error
}

func (r *memSharesRepo) Create(ctx context.Context, sh *models.HumidorShare) (*models.HumidorShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.s.shares[sh.HumidorID+"/"+sh.UserID]; ok {
		return nil, common.ErrorConflict
	}
	return r.s.addShare(sh), nil
}

func (r *memSharesRepo) Get(ctx context.Context, humidorID, userID string) (*models.HumidorShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	sh, ok := r.s.shares[humidorID+"/"+userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return sh, nil
}

func (r *memSharesRepo) ListByHumidor(ctx context.Context, humidorID string) ([]*models.HumidorShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.HumidorShare
	for _, sh := range r.s.shares {
		if sh.HumidorID == humidorID {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *memSharesRepo) UpdateLevel(ctx context.Context, humidorID, userID string, level models.PermissionLevel) (*models.HumidorShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	sh, ok := r.s.shares[humidorID+"/"+userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	sh.Level = level
	return sh, nil
}

func (r *memSharesRepo) Delete(ctx context.Context, humidorID, userID string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.shares[humidorID+"/"+userID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.shares, humidorID+"/"+userID)
	return nil
}

func (r *memSharesRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for k, sh := range r.s.shares {
		if h, ok := r.s.humidors[sh.HumidorID]; ok && h.UserID == ownerID {
			delete(r.s.shares, k)
			n++
		}
	}
	return n, nil
}

type memPublicSharesRepo struct {
	s   *memStore
	err error
}

func (r *memPublicSharesRepo) Create(ctx context.Context, ps *models.PublicShare) (*models.PublicShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.s.publicShares[ps.ID] = ps
	return ps, nil
}

func (r *memPublicSharesRepo) GetByID(ctx context.Context, id string) (*models.PublicShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	ps, ok := r.s.publicShares[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return ps, nil
}

func (r *memPublicSharesRepo) ListByHumidor(ctx context.Context, humidorID string) ([]*models.PublicShare, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.PublicShare
	for _, ps := range r.s.publicShares {
		if ps.HumidorID == humidorID {
			out = append(out, ps)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memPublicSharesRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.publicShares[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.publicShares, id)
	return nil
}

func (r *memPublicSharesRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for id, ps := range r.s.publicShares {
		if h, ok := r.s.humidors[ps.HumidorID]; ok && h.UserID == ownerID {
			delete(r.s.publicShares, id)
			n++
		}
	}
	return n, nil
}

type memListsRepo struct {
	s   *memStore
	err error
}

func (r *memListsRepo) Add(ctx context.Context, kind lists.Kind, userID, cigarID string) error {
	if r.err != nil {
		return r.err
	}
	if r.s.marks[kind][userID] == nil {
		r.s.marks[kind][userID] = map[string]bool{}
	}
	if r.s.marks[kind][userID][cigarID] {
		return common.ErrorConflict
	}
	r.s.marks[kind][userID][cigarID] = true
	return nil
}

func (r *memListsRepo) Remove(ctx context.Context, kind lists.Kind, userID, cigarID string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.s.marks[kind][userID], cigarID)
	return nil
}

func (r *memListsRepo) ListCigars(ctx context.Context, kind lists.Kind, userID string) ([]*models.Cigar, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Cigar
	for cigarID := range r.s.marks[kind][userID] {
		if c, ok := r.s.cigars[cigarID]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memListsRepo) ListCigarsForHumidor(ctx context.Context, kind lists.Kind, userID, humidorID string) ([]*models.Cigar, error) {
	all, err := r.ListCigars(ctx, kind, userID)
	if err != nil {
		return nil, err
	}
	var out []*models.Cigar
	for _, c := range all {
		if c.HumidorID == humidorID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memBrandsRepo struct {
	s   *memStore
	err error
}

func (r *memBrandsRepo) Create(ctx context.Context, b *models.Brand) (*models.Brand, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.s.brands {
		if existing.Name == b.Name {
			return nil, common.ErrorConflict
		}
	}
	if b.ID == "" {
		b.ID = r.s.nextID()
	}
	r.s.brands[b.ID] = b
	return b, nil
}

func (r *memBrandsRepo) List(ctx context.Context) ([]*models.Brand, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*models.Brand
	for _, b := range r.s.brands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memBrandsRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.s.brands[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.brands, id)
	return nil
}

// --- repository manager ---

type fakeRepoManager struct {
	store *memStore

	usersRepo        *memUsersRepo
	humidorsRepo     *memHumidorsRepo
	cigarsRepo       *memCigarsRepo
	sharesRepo       *memSharesRepo
	publicSharesRepo *memPublicSharesRepo
	listsRepo        *memListsRepo
	brandsRepo       *memBrandsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	s := newMemStore()
	return &fakeRepoManager{
		store:            s,
		usersRepo:        &memUsersRepo{s: s},
		humidorsRepo:     &memHumidorsRepo{s: s},
		cigarsRepo:       &memCigarsRepo{s: s},
		sharesRepo:       &memSharesRepo{s: s},
		publicSharesRepo: &memPublicSharesRepo{s: s},
		listsRepo:        &memListsRepo{s: s},
		brandsRepo:       &memBrandsRepo{s: s},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository            { return m.usersRepo }
func (m *fakeRepoManager) Humidors(db dbx.DBTX) humidors.Repository      { return m.humidorsRepo }
func (m *fakeRepoManager) Cigars(db dbx.DBTX) cigars.Repository          { return m.cigarsRepo }
func (m *fakeRepoManager) Shares(db dbx.DBTX) shares.Repository          { return m.sharesRepo }
func (m *fakeRepoManager) PublicShares(db dbx.DBTX) publicshares.Repository {
	return m.publicSharesRepo
}
func (m *fakeRepoManager) Lists(db dbx.DBTX) lists.Repository   { return m.listsRepo }
func (m *fakeRepoManager) Brands(db dbx.DBTX) brands.Repository { return m.brandsRepo }

// --- scenario seeding ---

func seedUser(rm *fakeRepoManager, id, name string, isAdmin bool) *models.User {
	return rm.store.addUser(&models.User{
		ID: id, UserName: name, Email: name + "@example.com",
		IsAdmin: isAdmin, IsActive: true,
	})
}

func seedHumidor(rm *fakeRepoManager, id, ownerID, name string) *models.Humidor {
	return rm.store.addHumidor(&models.Humidor{ID: id, UserID: ownerID, Name: name})
}

func seedCigar(rm *fakeRepoManager, id, humidorID, name string) *models.Cigar {
	return rm.store.addCigar(&models.Cigar{ID: id, HumidorID: humidorID, Name: name, Quantity: 1})
}

func seedShare(rm *fakeRepoManager, humidorID, userID string, level models.PermissionLevel) *models.HumidorShare {
	return rm.store.addShare(&models.HumidorShare{HumidorID: humidorID, UserID: userID, Level: level})
}

func futureTime(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}
