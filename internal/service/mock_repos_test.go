package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hieu182603/SmartAttendance-sub004/config"
	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	"github.com/hieu182603/SmartAttendance-sub004/internal/repository"
	pkgerrors "github.com/hieu182603/SmartAttendance-sub004/pkg/errors"
)

// 内存版仓储实现，测试用

// ── 班次 ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, s *model.Shift) error {
	if s.ShiftID == "" {
		s.ShiftID = uuid.NewString()
	}
	if s.Version == 0 {
		s.Version = 1
	}
	cp := *s
	m.shifts[s.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockShiftRepo) GetByName(_ context.Context, name string) (*model.Shift, error) {
	for _, s := range m.shifts {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) List(_ context.Context, includeInactive bool) ([]model.Shift, error) {
	var out []model.Shift
	for _, s := range m.shifts {
		if !includeInactive && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (m *mockShiftRepo) Update(_ context.Context, s *model.Shift) error {
	stored, ok := m.shifts[s.ShiftID]
	if !ok || stored.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	cp := *s
	m.shifts[s.ShiftID] = &cp
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

// ── 员工 ──

type mockUserRepo struct {
	users       map[string]*model.User
	shifts      *mockShiftRepo
	assignments *mockAssignmentRepo
}

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.Version == 0 {
		u.Version = 1
	}
	cp := *u
	m.users[u.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	if cp.DefaultShiftID != nil {
		if s, ok := m.shifts.shifts[*cp.DefaultShiftID]; ok {
			sc := *s
			cp.DefaultShift = &sc
		}
	}
	return &cp, nil
}

func (m *mockUserRepo) GetByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, _, _ string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	total := int64(len(all))
	all = paginate(all, offset, limit)
	return all, total, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	stored, ok := m.users[u.UserID]
	if !ok || stored.Version != u.Version {
		return pkgerrors.ErrOptimisticLock
	}
	u.Version++
	cp := *u
	cp.DefaultShiftID = stored.DefaultShiftID // 默认绑定不经由 Update 修改
	m.users[u.UserID] = &cp
	return nil
}

func (m *mockUserRepo) UpdateDefaultShift(_ context.Context, userID string, shiftID *string) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.DefaultShiftID = shiftID
	return nil
}

func (m *mockUserRepo) CountByDefaultShift(_ context.Context, shiftID string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.IsActive && u.DefaultShiftID != nil && *u.DefaultShiftID == shiftID {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) effectiveUserIDs(shiftID string, date time.Time) map[string]bool {
	day := model.DateOnly(date)
	ids := make(map[string]bool)
	for _, u := range m.users {
		if u.IsActive && u.DefaultShiftID != nil && *u.DefaultShiftID == shiftID {
			ids[u.UserID] = true
		}
	}
	for _, a := range m.assignments.items {
		if a.ShiftID == shiftID && a.IsActive && a.InWindow(day) {
			if u, ok := m.users[a.UserID]; ok && u.IsActive {
				ids[a.UserID] = true
			}
		}
	}
	return ids
}

func (m *mockUserRepo) ListEffectiveByShift(_ context.Context, shiftID string, date time.Time, _ string, offset, limit int) ([]model.User, int64, error) {
	ids := m.effectiveUserIDs(shiftID, date)
	var out []model.User
	for id := range ids {
		out = append(out, *m.users[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))
	out = paginate(out, offset, limit)
	return out, total, nil
}

func (m *mockUserRepo) CountEffectiveByShift(_ context.Context, shiftID string, date time.Time) (int64, error) {
	return int64(len(m.effectiveUserIDs(shiftID, date))), nil
}

// ── 班次分配 ──

type mockAssignmentRepo struct {
	items  map[string]*model.EmployeeShiftAssignment
	shifts *mockShiftRepo
	users  *mockUserRepo
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.EmployeeShiftAssignment) error {
	if a.AssignmentID == "" {
		a.AssignmentID = uuid.NewString()
	}
	if a.Version == 0 {
		a.Version = 1
	}
	cp := *a
	cp.Shift = nil
	m.items[a.AssignmentID] = &cp
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.EmployeeShiftAssignment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	m.attachShift(&cp)
	return &cp, nil
}

func (m *mockAssignmentRepo) attachShift(a *model.EmployeeShiftAssignment) {
	if s, ok := m.shifts.shifts[a.ShiftID]; ok {
		sc := *s
		a.Shift = &sc
	}
}

func sortAssignments(list []model.EmployeeShiftAssignment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Priority != list[j].Priority {
			return list[i].Priority < list[j].Priority
		}
		return list[i].EffectiveFrom.After(list[j].EffectiveFrom)
	})
}

func (m *mockAssignmentRepo) ListActiveByUserOn(_ context.Context, userID string, date time.Time) ([]model.EmployeeShiftAssignment, error) {
	day := model.DateOnly(date)
	var out []model.EmployeeShiftAssignment
	for _, a := range m.items {
		if a.UserID == userID && a.IsActive && a.InWindow(day) {
			cp := *a
			m.attachShift(&cp)
			out = append(out, cp)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (m *mockAssignmentRepo) ListActiveByUserInRange(_ context.Context, userID string, start, end time.Time) ([]model.EmployeeShiftAssignment, error) {
	startDay := model.DateOnly(start)
	endDay := model.EndOfDay(end)
	var out []model.EmployeeShiftAssignment
	for _, a := range m.items {
		if a.UserID != userID || !a.IsActive {
			continue
		}
		if a.EffectiveFrom.After(endDay) {
			continue
		}
		if a.EffectiveTo != nil && a.EffectiveTo.Before(startDay) {
			continue
		}
		cp := *a
		m.attachShift(&cp)
		out = append(out, cp)
	}
	sortAssignments(out)
	return out, nil
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, userID string, isActive *bool, date *time.Time, offset, limit int) ([]model.EmployeeShiftAssignment, int64, error) {
	var out []model.EmployeeShiftAssignment
	for _, a := range m.items {
		if a.UserID != userID {
			continue
		}
		if isActive != nil && a.IsActive != *isActive {
			continue
		}
		if date != nil && !a.InWindow(*date) {
			continue
		}
		cp := *a
		m.attachShift(&cp)
		out = append(out, cp)
	}
	sortAssignments(out)
	total := int64(len(out))
	out = paginate(out, offset, limit)
	return out, total, nil
}

func (m *mockAssignmentRepo) CountActiveByShift(_ context.Context, shiftID string) (int64, error) {
	var n int64
	for _, a := range m.items {
		if a.ShiftID == shiftID && a.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) DeactivateByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, a := range m.items {
		if a.UserID == userID && a.IsActive {
			a.IsActive = false
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepo) ReplaceActive(ctx context.Context, a *model.EmployeeShiftAssignment) error {
	if _, err := m.DeactivateByUser(ctx, a.UserID); err != nil {
		return err
	}
	if u, ok := m.users.users[a.UserID]; ok {
		u.DefaultShiftID = nil
	}
	return m.Create(ctx, a)
}

func (m *mockAssignmentRepo) Update(_ context.Context, a *model.EmployeeShiftAssignment) error {
	stored, ok := m.items[a.AssignmentID]
	if !ok || stored.Version != a.Version {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version++
	cp := *a
	cp.Shift = nil
	m.items[a.AssignmentID] = &cp
	return nil
}

// ── 排班表 ──

type mockScheduleRepo struct {
	entries map[string]*model.ScheduleEntry // userID|2006-01-02
}

func scheduleKey(userID string, date time.Time) string {
	return userID + "|" + model.DateOnly(date).Format("2006-01-02")
}

func (m *mockScheduleRepo) UpsertEntries(_ context.Context, entries []model.ScheduleEntry) error {
	for i := range entries {
		e := entries[i]
		key := scheduleKey(e.UserID, e.Date)
		if existing, ok := m.entries[key]; ok {
			if existing.LeaveRequestID != nil {
				continue // 请假条目不被覆盖
			}
			existing.ShiftID = e.ShiftID
			existing.ShiftName = e.ShiftName
			existing.StartTime = e.StartTime
			existing.EndTime = e.EndTime
			existing.Status = e.Status
			existing.Notes = e.Notes
			continue
		}
		if e.EntryID == "" {
			e.EntryID = uuid.NewString()
		}
		cp := e
		m.entries[key] = &cp
	}
	return nil
}

func (m *mockScheduleRepo) CreateEntry(_ context.Context, e *model.ScheduleEntry) error {
	key := scheduleKey(e.UserID, e.Date)
	if _, ok := m.entries[key]; ok {
		return fmt.Errorf("duplicate key: %s", key)
	}
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
	}
	cp := *e
	m.entries[key] = &cp
	return nil
}

func (m *mockScheduleRepo) GetByUserDate(_ context.Context, userID string, date time.Time) (*model.ScheduleEntry, error) {
	e, ok := m.entries[scheduleKey(userID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockScheduleRepo) ListByUserRange(_ context.Context, userID string, start, end time.Time) ([]model.ScheduleEntry, error) {
	startDay := model.DateOnly(start)
	endDay := model.DateOnly(end)
	var out []model.ScheduleEntry
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if e.Date.Before(startDay) || e.Date.After(endDay) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockScheduleRepo) MarkLeave(_ context.Context, userID string, date time.Time, notes, leaveRequestID string) (int64, error) {
	e, ok := m.entries[scheduleKey(userID, date)]
	if !ok {
		return 0, nil
	}
	e.Status = model.ScheduleStatusOff
	e.Notes = notes
	id := leaveRequestID
	e.LeaveRequestID = &id
	return 1, nil
}

func (m *mockScheduleRepo) DistinctUserIDsByShift(_ context.Context, shiftID string, from time.Time, statuses []string) ([]string, error) {
	fromDay := model.DateOnly(from)
	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.entries {
		if e.ShiftID == nil || *e.ShiftID != shiftID {
			continue
		}
		if e.Date.Before(fromDay) || !allowed[e.Status] || e.LeaveRequestID != nil {
			continue
		}
		if !seen[e.UserID] {
			seen[e.UserID] = true
			out = append(out, e.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockScheduleRepo) UpdateShiftSnapshot(_ context.Context, shiftID string, from time.Time, name, startTime, endTime string) (int64, error) {
	fromDay := model.DateOnly(from)
	var n int64
	for _, e := range m.entries {
		if e.ShiftID == nil || *e.ShiftID != shiftID {
			continue
		}
		if e.Date.Before(fromDay) || e.LeaveRequestID != nil {
			continue
		}
		if e.Status != model.ScheduleStatusScheduled && e.Status != model.ScheduleStatusCompleted {
			continue
		}
		e.ShiftName = name
		e.StartTime = startTime
		e.EndTime = endTime
		n++
	}
	return n, nil
}

// ── 组织与通知 ──

type mockDepartmentRepo struct {
	items map[string]*model.Department
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	d, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var out []model.Department
	for _, d := range m.items {
		out = append(out, *d)
	}
	return out, nil
}

type mockBranchRepo struct {
	items map[string]*model.Branch
}

func (m *mockBranchRepo) GetByID(_ context.Context, id string) (*model.Branch, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBranchRepo) List(_ context.Context) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range m.items {
		out = append(out, *b)
	}
	return out, nil
}

type mockNotificationRepo struct {
	items []model.Notification
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if n.NotificationID == "" {
		n.NotificationID = uuid.NewString()
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	total := int64(len(out))
	out = paginate(out, offset, limit)
	return out, total, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	for i := range m.items {
		if m.items[i].NotificationID == notificationID && m.items[i].UserID == userID {
			m.items[i].IsRead = true
		}
	}
	return nil
}

// ── 请假 ──

type mockLeaveRepo struct {
	items map[string]*model.LeaveRequest
}

func (m *mockLeaveRepo) Upsert(_ context.Context, req *model.LeaveRequest) error {
	if req.RequestID == "" {
		req.RequestID = fmt.Sprintf("leave-%d", len(m.items)+1)
	}
	cp := *req
	m.items[req.RequestID] = &cp
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	req, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (m *mockLeaveRepo) ListByUser(_ context.Context, userID string) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, req := range m.items {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func paginate[T any](list []T, offset, limit int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── 测试环境 ──

type testEnv struct {
	cfg           *config.Config
	repo          *repository.Repository
	shifts        *mockShiftRepo
	users         *mockUserRepo
	assignments   *mockAssignmentRepo
	schedules     *mockScheduleRepo
	leaves        *mockLeaveRepo
	notifications *mockNotificationRepo
	log           *zap.Logger
}

func newTestEnv() *testEnv {
	shifts := newMockShiftRepo()
	users := &mockUserRepo{users: make(map[string]*model.User), shifts: shifts}
	assignments := &mockAssignmentRepo{items: make(map[string]*model.EmployeeShiftAssignment), shifts: shifts, users: users}
	users.assignments = assignments
	schedules := &mockScheduleRepo{entries: make(map[string]*model.ScheduleEntry)}
	leaves := &mockLeaveRepo{items: make(map[string]*model.LeaveRequest)}
	notifications := &mockNotificationRepo{}

	repo := &repository.Repository{
		User:         users,
		Department:   &mockDepartmentRepo{items: make(map[string]*model.Department)},
		Branch:       &mockBranchRepo{items: make(map[string]*model.Branch)},
		Shift:        shifts,
		Assignment:   assignments,
		Schedule:     schedules,
		Leave:        leaves,
		Notification: notifications,
	}

	return &testEnv{
		cfg: &config.Config{
			Schedule: config.ScheduleConfig{RegenerateMonths: 3, CascadeDays: 3},
		},
		repo:          repo,
		shifts:        shifts,
		users:         users,
		assignments:   assignments,
		schedules:     schedules,
		leaves:        leaves,
		notifications: notifications,
		log:           zap.NewNop(),
	}
}

func (e *testEnv) seedShift(name, start, end string, active bool) *model.Shift {
	s := &model.Shift{Name: name, StartTime: start, EndTime: end, IsActive: active}
	_ = e.shifts.Create(context.Background(), s)
	return s
}

func (e *testEnv) seedUser(name string, defaultShiftID *string) *model.User {
	u := &model.User{Name: name, Email: name + "@example.com", Role: model.RoleEmployee,
		DefaultShiftID: defaultShiftID, IsActive: true}
	_ = e.users.Create(context.Background(), u)
	return u
}

func (e *testEnv) seedAssignment(a *model.EmployeeShiftAssignment) *model.EmployeeShiftAssignment {
	if a.Priority == 0 {
		a.Priority = 1
	}
	a.IsActive = true
	_ = e.assignments.Create(context.Background(), a)
	return a
}

// date 构造本地零点日期
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
