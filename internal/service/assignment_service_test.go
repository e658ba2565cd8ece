package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hieu182603/SmartAttendance-sub004/internal/dto"
	"github.com/hieu182603/SmartAttendance-sub004/internal/model"
	pkgerrors "github.com/hieu182603/SmartAttendance-sub004/pkg/errors"
)

func newAssignmentService(env *testEnv) AssignmentService {
	scheduleSvc := newScheduleService(env)
	notifySvc := NewNotificationService(env.repo, env.log)
	return NewAssignmentService(env.cfg, env.repo, scheduleSvc, notifySvc, env.log)
}

func TestAssignShift_PatternedSupersedesExisting(t *testing.T) {
	env := newTestEnv()
	oldShift := env.seedShift("白班", "09:00", "18:00", true)
	newShift := env.seedShift("晚班", "22:00", "06:00", true)
	user := env.seedUser("张三", &oldShift.ShiftID)

	old := env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: oldShift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	resp, err := svc.AssignShift(context.Background(), &dto.AssignShiftRequest{
		UserID:     user.UserID,
		ShiftID:    newShift.ShiftID,
		Pattern:    model.PatternWeekdays,
		EffectiveFrom: time.Now().Format("2006-01-02"),
	}, "")
	if err != nil {
		t.Fatalf("分配失败: %v", err)
	}
	if resp.Mode != "assignment" || resp.Assignment == nil {
		t.Fatalf("应创建模式化分配, got %+v", resp)
	}

	// 旧分配被停用，默认绑定被清除
	if env.assignments.items[old.AssignmentID].IsActive {
		t.Fatal("既有活跃分配应被停用")
	}
	if env.users.users[user.UserID].DefaultShiftID != nil {
		t.Fatal("默认班次绑定应被清除")
	}

	// 变更后通知已写入
	if len(env.notifications.items) != 1 || env.notifications.items[0].UserID != user.UserID {
		t.Fatalf("应写入一条排班变更通知, got %+v", env.notifications.items)
	}

	// 排班已重算落库
	today := model.DateOnly(time.Now())
	if today.Weekday() != time.Saturday && today.Weekday() != time.Sunday {
		e, err := env.schedules.GetByUserDate(context.Background(), user.UserID, today)
		if err != nil {
			t.Fatalf("今天的排班应已生成: %v", err)
		}
		if e.ShiftName != "晚班" {
			t.Fatalf("排班应指向新班次, got %+v", e)
		}
	}
}

func TestAssignShift_FullTimeDefaultBinding(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	user := env.seedUser("李四", nil)

	old := env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: shift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	resp, err := svc.AssignShift(context.Background(), &dto.AssignShiftRequest{
		UserID:     user.UserID,
		ShiftID:    shift.ShiftID,
		IsFullTime: true,
	}, "")
	if err != nil {
		t.Fatalf("分配失败: %v", err)
	}
	if resp.Mode != "default" {
		t.Fatalf("应走默认绑定路径, got %+v", resp)
	}

	u := env.users.users[user.UserID]
	if u.DefaultShiftID == nil || *u.DefaultShiftID != shift.ShiftID {
		t.Fatal("默认班次应被绑定")
	}
	if env.assignments.items[old.AssignmentID].IsActive {
		t.Fatal("既有分配应被停用")
	}
}

func TestAssignShift_Validation(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	inactive := env.seedShift("停用班", "09:00", "18:00", false)
	user := env.seedUser("王五", nil)

	svc := newAssignmentService(env)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.AssignShiftRequest
		want error
	}{
		{"班次不存在", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: "a0000000-0000-0000-0000-00000000dead"}, ErrShiftNotFound},
		{"班次已停用", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: inactive.ShiftID}, ErrShiftInactive},
		{"员工不存在", dto.AssignShiftRequest{UserID: "b0000000-0000-0000-0000-00000000dead", ShiftID: shift.ShiftID}, ErrEmployeeNotFound},
		{"未知模式", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: shift.ShiftID, Pattern: "biweekly"}, ErrInvalidPattern},
		{"custom 缺少星期", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: shift.ShiftID, Pattern: model.PatternCustom}, ErrInvalidPattern},
		{"星期越界", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: shift.ShiftID, Pattern: model.PatternCustom, DaysOfWeek: []int{7}}, ErrInvalidPattern},
		{"specific 缺少日期", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: shift.ShiftID, Pattern: model.PatternSpecific}, ErrInvalidPattern},
		{"结束早于开始", dto.AssignShiftRequest{UserID: user.UserID, ShiftID: shift.ShiftID, EffectiveFrom: "2024-03-10", EffectiveTo: "2024-03-01"}, ErrInvalidDateRange},
	}
	for _, tc := range cases {
		if _, err := svc.AssignShift(ctx, &tc.req, ""); !errors.Is(err, tc.want) {
			t.Errorf("%s: 期望 %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestBulkAssign_ReportsPerEmployeeResults(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	u1 := env.seedUser("张三", nil)
	u2 := env.seedUser("李四", nil)

	old := env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: u1.UserID, ShiftID: shift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	resp, err := svc.BulkAssign(context.Background(), &dto.BulkAssignRequest{
		UserIDs: []string{u1.UserID, u2.UserID, "c0000000-0000-0000-0000-00000000dead"},
		ShiftID: shift.ShiftID,
	}, "")
	if err != nil {
		t.Fatalf("批量分配失败: %v", err)
	}

	if resp.Assigned != 2 || len(resp.Failed) != 1 {
		t.Fatalf("期望 assigned=2 failed=1, got %+v", resp)
	}
	for _, uid := range []string{u1.UserID, u2.UserID} {
		u := env.users.users[uid]
		if u.DefaultShiftID == nil || *u.DefaultShiftID != shift.ShiftID {
			t.Fatalf("员工 %s 的默认班次应被绑定", uid)
		}
	}
	// 批量绑定同样取代既有分配
	if env.assignments.items[old.AssignmentID].IsActive {
		t.Fatal("批量绑定应停用既有分配")
	}
}

func TestRemoveShift_ClearsAllOwnership(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	user := env.seedUser("孙七", &shift.ShiftID)
	a := env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: shift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	if err := svc.RemoveShift(context.Background(), user.UserID); err != nil {
		t.Fatalf("解除归属失败: %v", err)
	}

	if env.users.users[user.UserID].DefaultShiftID != nil {
		t.Fatal("默认绑定应被清除")
	}
	if env.assignments.items[a.AssignmentID].IsActive {
		t.Fatal("分配应被停用")
	}
}

func TestUpdateAssignment_OptimisticLock(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	user := env.seedUser("周八", nil)
	a := env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: shift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	p := 5

	// 版本号过期
	_, err := svc.UpdateAssignment(context.Background(), a.AssignmentID,
		&dto.UpdateAssignmentRequest{Priority: &p, Version: 99})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("期望乐观锁冲突, got %v", err)
	}

	// 正确版本号
	resp, err := svc.UpdateAssignment(context.Background(), a.AssignmentID,
		&dto.UpdateAssignmentRequest{Priority: &p, Version: 1})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.Priority != 5 || resp.Version != 2 {
		t.Fatalf("更新结果不正确: %+v", resp)
	}
}

func TestDeactivateAssignment(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	user := env.seedUser("吴九", nil)
	a := env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: shift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	if err := svc.DeactivateAssignment(context.Background(), a.AssignmentID, 1); err != nil {
		t.Fatalf("停用失败: %v", err)
	}
	if env.assignments.items[a.AssignmentID].IsActive {
		t.Fatal("分配应已停用")
	}

	if err := svc.DeactivateAssignment(context.Background(), "d0000000-0000-0000-0000-00000000dead", 1); !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("期望 ErrAssignmentNotFound, got %v", err)
	}
}

func TestShiftEmployeeCounts(t *testing.T) {
	env := newTestEnv()
	day := env.seedShift("白班", "09:00", "18:00", true)
	night := env.seedShift("晚班", "22:00", "06:00", true)

	u1 := env.seedUser("张三", &day.ShiftID)
	_ = u1
	u2 := env.seedUser("李四", nil)
	env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: u2.UserID, ShiftID: night.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newAssignmentService(env)
	counts, err := svc.ShiftEmployeeCounts(context.Background(), date(2024, time.March, 5))
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}

	got := make(map[string]int64, len(counts))
	for _, c := range counts {
		got[c.ShiftName] = c.Count
	}
	if got["白班"] != 1 || got["晚班"] != 1 {
		t.Fatalf("人数统计不正确: %+v", got)
	}
}
