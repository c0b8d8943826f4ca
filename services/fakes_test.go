package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
)

// In-memory stores mirroring the Mongo repositories' conditional semantics.

type memSettings struct {
	mu       sync.Mutex
	settings *models.CommissionSettings
	getErr   error
}

func (m *memSettings) Get(ctx context.Context) (*models.CommissionSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memSettings) Save(ctx context.Context, settings models.CommissionSettings, expectedVersion int64) (*models.CommissionSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current int64
	if m.settings != nil {
		current = m.settings.Version
	}
	if current != expectedVersion {
		return nil, repositories.ErrStaleVersion
	}
	saved := settings
	saved.ID = models.GlobalSettingsID
	saved.Version = current + 1
	if m.settings == nil {
		saved.CreatedAt = settings.UpdatedAt
	} else {
		saved.CreatedAt = m.settings.CreatedAt
	}
	m.settings = &saved
	cp := saved
	return &cp, nil
}

type memBookings struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	insertErr error
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: map[string]*models.Booking{}}
}

func (m *memBookings) Insert(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.bookings[booking.ID]; ok {
		return repositories.ErrDuplicate
	}
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *memBookings) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memBookings) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyBooking(b), nil
}

func (m *memBookings) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return m.filter(func(b *models.Booking) bool {
		return (filter.Status == "" || b.Status == filter.Status) &&
			(filter.ServiceType == "" || b.ServiceType == filter.ServiceType)
	}), nil
}

func (m *memBookings) ListByReferrer(ctx context.Context, referrerID string) ([]models.Booking, error) {
	return m.filter(func(b *models.Booking) bool { return b.ReferrerID == referrerID }), nil
}

func (m *memBookings) filter(keep func(*models.Booking) bool) []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.bookings {
		if keep(b) {
			out = append(out, *copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memBookings) TransitionStatus(ctx context.Context, id, from, to string, changes repositories.BookingChanges) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return nil, repositories.ErrNotFound
	}
	b.Status = to
	applyChanges(b, changes)
	return copyBooking(b), nil
}

func (m *memBookings) UpdateFields(ctx context.Context, id string, changes repositories.BookingChanges) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	applyChanges(b, changes)
	return copyBooking(b), nil
}

func (m *memBookings) ClaimAttribution(ctx context.Context, id string, at time.Time) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != models.BookingStatusConfirmed || b.Attribution != nil {
		return nil, repositories.ErrNotFound
	}
	b.Attribution = &models.Attribution{State: models.AttributionClaimed, ClaimedAt: at}
	return copyBooking(b), nil
}

func (m *memBookings) CompleteAttribution(ctx context.Context, id, transactionID string, at time.Time) error {
	return m.finish(id, func(a *models.Attribution) {
		a.State = models.AttributionDone
		a.TransactionID = transactionID
		a.CompletedAt = &at
	})
}

func (m *memBookings) FailAttribution(ctx context.Context, id, reason string, at time.Time) error {
	return m.finish(id, func(a *models.Attribution) {
		a.State = models.AttributionFailed
		a.Error = reason
		a.CompletedAt = &at
	})
}

func (m *memBookings) finish(id string, apply func(*models.Attribution)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Attribution == nil || b.Attribution.State != models.AttributionClaimed {
		return repositories.ErrNotFound
	}
	apply(b.Attribution)
	return nil
}

func (m *memBookings) Stats(ctx context.Context) (*models.BookingStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byStatus := map[string]int64{}
	byService := map[string]int64{}
	for _, b := range m.bookings {
		byStatus[b.Status]++
		byService[b.ServiceType]++
	}
	return &models.BookingStats{
		Total:     int64(len(m.bookings)),
		ByStatus:  buckets(byStatus),
		ByService: buckets(byService),
	}, nil
}

func buckets(counts map[string]int64) []models.CountBucket {
	out := []models.CountBucket{}
	for k, v := range counts {
		out = append(out, models.CountBucket{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func applyChanges(b *models.Booking, changes repositories.BookingChanges) {
	if changes.AdminNotes != nil {
		b.AdminNotes = *changes.AdminNotes
	}
	if changes.ServiceAmount != nil {
		b.ServiceAmount = *changes.ServiceAmount
	}
	b.UpdatedAt = changes.UpdatedAt
}

func copyBooking(b *models.Booking) *models.Booking {
	cp := *b
	if b.Attribution != nil {
		a := *b.Attribution
		cp.Attribution = &a
	}
	return &cp
}

type memReferrals struct {
	mu           sync.Mutex
	codes        map[string]*models.ReferralCode
	transactions []models.ReferralTransaction
	insertErr    error
}

func newMemReferrals() *memReferrals {
	return &memReferrals{codes: map[string]*models.ReferralCode{}}
}

func (m *memReferrals) InsertCode(ctx context.Context, code *models.ReferralCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[code.Code]; ok {
		return repositories.ErrDuplicate
	}
	cp := *code
	m.codes[code.Code] = &cp
	return nil
}

func (m *memReferrals) FindCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memReferrals) FindCodeByUser(ctx context.Context, userID string) (*models.ReferralCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.codes {
		if c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memReferrals) IncrementReferrals(ctx context.Context, code string) error {
	return m.bump(code, func(c *models.ReferralCode) { c.TotalReferrals++ })
}

func (m *memReferrals) IncrementConversions(ctx context.Context, code string) error {
	return m.bump(code, func(c *models.ReferralCode) { c.SuccessfulConversions++ })
}

func (m *memReferrals) bump(code string, apply func(*models.ReferralCode)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[code]
	if !ok {
		return repositories.ErrNotFound
	}
	apply(c)
	return nil
}

func (m *memReferrals) InsertTransaction(ctx context.Context, tx *models.ReferralTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	for _, existing := range m.transactions {
		if existing.BookingID == tx.BookingID {
			return repositories.ErrDuplicate
		}
	}
	m.transactions = append(m.transactions, *tx)
	return nil
}

func (m *memReferrals) FindTransactionByBooking(ctx context.Context, bookingID string) (*models.ReferralTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.BookingID == bookingID {
			cp := tx
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memReferrals) MarkTransactionStep(ctx context.Context, txID, step string, done bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		tx := &m.transactions[i]
		if tx.ID != txID {
			continue
		}
		flag := &tx.EarningsCredited
		if step == models.TxStepConversionCounted {
			flag = &tx.ConversionCounted
		}
		if *flag == done {
			return false, nil
		}
		*flag = done
		return true, nil
	}
	return false, nil
}

func (m *memReferrals) ListTransactionsByReferrer(ctx context.Context, referrerID string) ([]models.ReferralTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ReferralTransaction{}
	for _, tx := range m.transactions {
		if tx.ReferrerID == referrerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memReferrals) SumBaseCommission(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, tx := range m.transactions {
		if tx.Status == models.ReferralTransactionCompleted {
			total += tx.BaseCommission
		}
	}
	return total, nil
}

func (m *memReferrals) transactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.BAProfile // keyed by user id
	credits  int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{profiles: map[string]*models.BAProfile{}}
}

func (m *memProfiles) Insert(ctx context.Context, profile *models.BAProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[profile.UserID]; ok {
		return repositories.ErrDuplicate
	}
	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

func (m *memProfiles) FindByUserID(ctx context.Context, userID string) (*models.BAProfile, error) {
	return m.findOne(func(p *models.BAProfile) bool { return p.UserID == userID })
}

func (m *memProfiles) FindByReferralCode(ctx context.Context, code string) (*models.BAProfile, error) {
	return m.findOne(func(p *models.BAProfile) bool { return p.ReferralCode == code })
}

func (m *memProfiles) FindByUsername(ctx context.Context, username string) (*models.BAProfile, error) {
	return m.findOne(func(p *models.BAProfile) bool {
		return p.Username != "" && strings.EqualFold(p.Username, username)
	})
}

func (m *memProfiles) findOne(match func(*models.BAProfile) bool) (*models.BAProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if match(p) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memProfiles) UpdateDetails(ctx context.Context, userID string, req models.UpdateBAProfileRequest, at time.Time) (*models.BAProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Phone, req.Phone)
	set(&p.Expertise, req.Expertise)
	set(&p.Bio, req.Bio)
	set(&p.CompanyName, req.CompanyName)
	set(&p.GSTNumber, req.GSTNumber)
	if req.BankName != nil || req.AccountNumber != nil || req.IFSCCode != nil || req.AccountHolderName != nil {
		if p.BankDetails == nil {
			p.BankDetails = &models.BankDetails{}
		}
		set(&p.BankDetails.BankName, req.BankName)
		set(&p.BankDetails.AccountNumber, req.AccountNumber)
		set(&p.BankDetails.IFSCCode, req.IFSCCode)
		set(&p.BankDetails.AccountHolderName, req.AccountHolderName)
	}
	p.UpdatedAt = at
	cp := *p
	return &cp, nil
}

func (m *memProfiles) SetKYCStatus(ctx context.Context, userID, status, reason string, at time.Time) (*models.BAProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.KYCStatus = status
	switch status {
	case models.KYCApproved:
		p.KYCApprovedAt = &at
		p.RejectionReason = ""
	case models.KYCRejected:
		p.RejectionReason = reason
		p.KYCApprovedAt = nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) CreditEarnings(ctx context.Context, userID string, amount float64) error {
	return m.update(userID, func(p *models.BAProfile) {
		p.TotalEarnings += amount
		p.ApprovedEarnings += amount
		m.credits++
	})
}

func (m *memProfiles) AddWithdrawn(ctx context.Context, userID string, amount float64) error {
	return m.update(userID, func(p *models.BAProfile) { p.WithdrawnEarnings += amount })
}

func (m *memProfiles) IncrementReferredCount(ctx context.Context, userID string) error {
	return m.update(userID, func(p *models.BAProfile) { p.ReferredCount++ })
}

func (m *memProfiles) update(userID string, apply func(*models.BAProfile)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	apply(p)
	return nil
}

func (m *memProfiles) ListReferredBy(ctx context.Context, userID string) ([]models.BAProfile, error) {
	return m.list(func(p *models.BAProfile) bool { return p.ReferredBy == userID }), nil
}

func (m *memProfiles) ListByKYCStatus(ctx context.Context, status string) ([]models.BAProfile, error) {
	return m.list(func(p *models.BAProfile) bool { return p.KYCStatus == status }), nil
}

func (m *memProfiles) list(keep func(*models.BAProfile) bool) []models.BAProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BAProfile{}
	for _, p := range m.profiles {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (m *memProfiles) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.profiles)), nil
}

func (m *memProfiles) CountByKYCStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(m.list(func(p *models.BAProfile) bool { return p.KYCStatus == status }))), nil
}

func (m *memProfiles) get(userID string) models.BAProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.profiles[userID]
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*models.User{}}
}

func (m *memUsers) Insert(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]*models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *memUsers) CountByRole(ctx context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memCoupons struct {
	mu          sync.Mutex
	coupons     map[string]*models.CouponCode // keyed by code
	assignments []models.CouponAssignment
	// beforeRedeem runs under the lock, standing in for a concurrent writer
	beforeRedeem func(*models.CouponCode)
}

func newMemCoupons() *memCoupons {
	return &memCoupons{coupons: map[string]*models.CouponCode{}}
}

func (m *memCoupons) InsertCoupon(ctx context.Context, coupon *models.CouponCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[coupon.Code]; ok {
		return repositories.ErrDuplicate
	}
	cp := *coupon
	m.coupons[coupon.Code] = &cp
	return nil
}

func (m *memCoupons) FindByCode(ctx context.Context, code string) (*models.CouponCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCoupons) FindByID(ctx context.Context, id string) (*models.CouponCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.coupons {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memCoupons) Redeem(ctx context.Context, code string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.coupons[code]
	if ok && m.beforeRedeem != nil {
		m.beforeRedeem(c)
	}
	if !ok || !c.Usable(now) {
		return repositories.ErrNotFound
	}
	c.GlobalUsageCount++
	return nil
}

func (m *memCoupons) InsertAssignment(ctx context.Context, assignment *models.CouponAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.CouponID == assignment.CouponID && a.BAID == assignment.BAID {
			return repositories.ErrDuplicate
		}
	}
	m.assignments = append(m.assignments, *assignment)
	return nil
}

func (m *memCoupons) ListAssigned(ctx context.Context, baID string) ([]models.AssignedCoupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.AssignedCoupon{}
	for _, a := range m.assignments {
		if a.BAID == baID {
			out = append(out, m.join(a))
		}
	}
	return out, nil
}

func (m *memCoupons) FindAssigned(ctx context.Context, baID, couponID string) (*models.AssignedCoupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if a.BAID == baID && a.CouponID == couponID {
			row := m.join(a)
			return &row, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memCoupons) join(a models.CouponAssignment) models.AssignedCoupon {
	row := models.AssignedCoupon{CouponAssignment: a}
	for _, c := range m.coupons {
		if c.ID == a.CouponID {
			cp := *c
			row.Coupon = &cp
		}
	}
	return row
}

type memWithdrawals struct {
	mu    sync.Mutex
	items []*models.WithdrawalRequest
}

func (m *memWithdrawals) Insert(ctx context.Context, req *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.items = append(m.items, &cp)
	return nil
}

func (m *memWithdrawals) FindByID(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.items {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memWithdrawals) ListByBA(ctx context.Context, baID string, limit, offset int64) ([]models.WithdrawalRequest, int64, error) {
	all := m.list(func(w *models.WithdrawalRequest) bool { return w.BAID == baID })
	total := int64(len(all))
	if offset >= total {
		return []models.WithdrawalRequest{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *memWithdrawals) ListByStatus(ctx context.Context, status string) ([]models.WithdrawalRequest, error) {
	return m.list(func(w *models.WithdrawalRequest) bool { return w.Status == status }), nil
}

func (m *memWithdrawals) CountByStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(m.list(func(w *models.WithdrawalRequest) bool { return w.Status == status }))), nil
}

func (m *memWithdrawals) SumAmount(ctx context.Context, baID, status string) (float64, error) {
	var total float64
	for _, w := range m.list(func(w *models.WithdrawalRequest) bool {
		return w.Status == status && (baID == "" || w.BAID == baID)
	}) {
		total += w.Amount
	}
	return total, nil
}

func (m *memWithdrawals) Decide(ctx context.Context, id, status, notes string, at time.Time) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.items {
		if w.ID == id && w.Status == models.WithdrawalPending {
			w.Status = status
			w.AdminNotes = notes
			w.UpdatedAt = at
			if status == models.WithdrawalApproved {
				w.ApprovedAt = &at
			}
			cp := *w
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memWithdrawals) list(keep func(*models.WithdrawalRequest) bool) []models.WithdrawalRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.WithdrawalRequest{}
	for _, w := range m.items {
		if keep(w) {
			out = append(out, *w)
		}
	}
	return out
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(event models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	settings    *memSettings
	bookings    *memBookings
	referrals   *memReferrals
	profiles    *memProfiles
	users       *memUsers
	coupons     *memCoupons
	withdrawals *memWithdrawals
	events      *recordingPublisher
	now         time.Time
}

func newTestEnv() *testEnv {
	return &testEnv{
		settings:    &memSettings{},
		bookings:    newMemBookings(),
		referrals:   newMemReferrals(),
		profiles:    newMemProfiles(),
		users:       newMemUsers(),
		coupons:     newMemCoupons(),
		withdrawals: &memWithdrawals{},
		events:      &recordingPublisher{},
		now:         time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) stores() Stores {
	return Stores{
		Settings:    e.settings,
		Bookings:    e.bookings,
		Referrals:   e.referrals,
		Profiles:    e.profiles,
		Users:       e.users,
		Coupons:     e.coupons,
		Withdrawals: e.withdrawals,
	}
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) commission() *CommissionService {
	s := NewCommissionService(e.settings)
	s.now = e.clock
	return s
}

func (e *testEnv) bookingService() *BookingService {
	attributor := NewReferralAttributor(e.stores(), e.commission(), nil, e.events)
	attributor.now = e.clock
	s := NewBookingService(e.stores(), attributor, nil, e.events)
	s.now = e.clock
	return s
}

func (e *testEnv) baService() *BAService {
	s := NewBAService(e.stores(), e.events, "https://vastu.example")
	s.now = e.clock
	return s
}

// addBA seeds a BA user, profile and active referral code
func (e *testEnv) addBA(userID, code, kycStatus string) {
	e.users.users[userID] = &models.User{
		ID:        userID,
		Email:     userID + "@example.com",
		Role:      models.RoleBA,
		FirstName: "BA",
		LastName:  userID,
	}
	e.profiles.profiles[userID] = &models.BAProfile{
		ID:           "profile-" + userID,
		UserID:       userID,
		KYCStatus:    kycStatus,
		ReferralCode: code,
	}
	e.referrals.codes[code] = &models.ReferralCode{
		ID:       "code-" + userID,
		Code:     code,
		UserID:   userID,
		IsActive: true,
	}
}

func bookingRequest(now time.Time, referralCode string) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		ClientName:    "Asha Rao",
		ClientEmail:   "Asha@Example.com",
		ClientPhone:   "9876543210",
		ServiceType:   models.ServiceResidentialVastu,
		PreferredDate: models.FlexibleDate{Time: now.Add(72 * time.Hour)},
		PreferredTime: "10:30 AM",
		ReferralCode:  referralCode,
	}
}

func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string   { return &v }
