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

func newShiftService(env *testEnv) ShiftService {
	return NewShiftService(env.cfg, env.repo, newScheduleService(env), env.log)
}

func TestCreateShift_Validation(t *testing.T) {
	env := newTestEnv()
	env.seedShift("白班", "09:00", "18:00", true)

	svc := newShiftService(env)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateShiftRequest{
		Name: "白班", StartTime: "08:00", EndTime: "17:00",
	}); !errors.Is(err, ErrShiftNameExists) {
		t.Fatalf("期望 ErrShiftNameExists, got %v", err)
	}

	if _, err := svc.Create(ctx, &dto.CreateShiftRequest{
		Name: "坏班", StartTime: "25:00", EndTime: "17:00",
	}); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("期望 ErrInvalidClock, got %v", err)
	}

	resp, err := svc.Create(ctx, &dto.CreateShiftRequest{
		Name: "夜班", StartTime: "22:00", EndTime: "06:00", BreakDuration: 30,
	})
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.TotalHours != 7.5 {
		t.Fatalf("跨夜净工时应为 7.5, got %v", resp.TotalHours)
	}
}

func TestUpdateShift_TimeChangeCascades(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	user := env.seedUser("张三", &shift.ShiftID)

	today := model.DateOnly(time.Now())
	tomorrow := today.AddDate(0, 0, 1)
	shiftID := shift.ShiftID

	// 明天的排班 + 一条请假条目
	_ = env.schedules.CreateEntry(context.Background(), &model.ScheduleEntry{
		UserID: user.UserID, Date: tomorrow, ShiftID: &shiftID,
		ShiftName: "白班", StartTime: "09:00", EndTime: "18:00",
		Status: model.ScheduleStatusScheduled,
	})
	dayAfter := today.AddDate(0, 0, 2)
	leaveID := "6f000000-0000-0000-0000-000000000003"
	_ = env.schedules.CreateEntry(context.Background(), &model.ScheduleEntry{
		UserID: user.UserID, Date: dayAfter, ShiftID: &shiftID,
		ShiftName: "白班", StartTime: "09:00", EndTime: "18:00",
		Status: model.ScheduleStatusOff, LeaveRequestID: &leaveID,
	})

	svc := newShiftService(env)
	newStart := "08:30"
	resp, err := svc.Update(context.Background(), shift.ShiftID, &dto.UpdateShiftRequest{
		StartTime: &newStart,
		Version:   1,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if resp.StartTime != "08:30" || resp.Version != 2 {
		t.Fatalf("更新结果不正确: %+v", resp)
	}

	// 未来排班快照被刷新
	e, err := env.schedules.GetByUserDate(context.Background(), user.UserID, tomorrow)
	if err != nil {
		t.Fatalf("查询条目失败: %v", err)
	}
	if e.StartTime != "08:30" {
		t.Fatalf("排班快照应被级联更新, got %+v", e)
	}

	// 请假条目不被级联触碰
	leave, _ := env.schedules.GetByUserDate(context.Background(), user.UserID, dayAfter)
	if leave.StartTime != "09:00" || leave.Status != model.ScheduleStatusOff {
		t.Fatalf("请假条目不应被级联修改: %+v", leave)
	}

	// 受影响员工近几天的排班被重算（默认班次路径）
	todayEntry, err := env.schedules.GetByUserDate(context.Background(), user.UserID, today)
	if err != nil {
		t.Fatalf("今天的排班应被重算生成: %v", err)
	}
	if todayEntry.StartTime != "08:30" {
		t.Fatalf("重算后的排班应使用新时间, got %+v", todayEntry)
	}

	// 以相同时间再次提交：更新成功但不触发级联重算
	delete(env.schedules.entries, scheduleKey(user.UserID, today))
	resp2, err := svc.Update(context.Background(), shift.ShiftID, &dto.UpdateShiftRequest{
		StartTime: &newStart,
		Version:   2,
	})
	if err != nil {
		t.Fatalf("重复更新失败: %v", err)
	}
	if resp2.StartTime != "08:30" || resp2.Version != 3 {
		t.Fatalf("重复更新结果不正确: %+v", resp2)
	}
	if _, err := env.schedules.GetByUserDate(context.Background(), user.UserID, today); err == nil {
		t.Fatal("时间未变更不应触发级联重算")
	}
	e2, _ := env.schedules.GetByUserDate(context.Background(), user.UserID, tomorrow)
	if e2.StartTime != "08:30" || e2.ShiftName != "白班" {
		t.Fatalf("重复更新后快照应保持不变: %+v", e2)
	}
}

func TestUpdateShift_OptimisticLock(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)

	svc := newShiftService(env)
	desc := "调整"
	_, err := svc.Update(context.Background(), shift.ShiftID, &dto.UpdateShiftRequest{
		Description: &desc,
		Version:     42,
	})
	if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Fatalf("期望乐观锁冲突, got %v", err)
	}
}

func TestDeactivateShift_InUseGuard(t *testing.T) {
	env := newTestEnv()
	byAssignment := env.seedShift("白班", "09:00", "18:00", true)
	byDefault := env.seedShift("晚班", "22:00", "06:00", true)
	free := env.seedShift("空班", "10:00", "16:00", true)

	user := env.seedUser("张三", &byDefault.ShiftID)
	env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: byAssignment.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newShiftService(env)
	ctx := context.Background()

	if err := svc.Deactivate(ctx, byAssignment.ShiftID, 1); !errors.Is(err, ErrShiftInUse) {
		t.Fatalf("被分配引用的班次应拒绝停用, got %v", err)
	}
	if err := svc.Delete(ctx, byDefault.ShiftID); !errors.Is(err, ErrShiftInUse) {
		t.Fatalf("被默认绑定引用的班次应拒绝删除, got %v", err)
	}

	if err := svc.Deactivate(ctx, free.ShiftID, 1); err != nil {
		t.Fatalf("未被引用的班次应可停用: %v", err)
	}
	if env.shifts.shifts[free.ShiftID].IsActive {
		t.Fatal("班次应已停用")
	}
}

func TestUpdateShift_DeactivateRespectsInUseGuard(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)
	user := env.seedUser("张三", nil)
	env.seedAssignment(&model.EmployeeShiftAssignment{
		UserID: user.UserID, ShiftID: shift.ShiftID,
		Pattern: model.PatternAll, EffectiveFrom: date(2024, time.January, 1),
	})

	svc := newShiftService(env)
	ctx := context.Background()
	inactive := false

	// 通过普通更新停用同样要过引用守卫
	if _, err := svc.Update(ctx, shift.ShiftID, &dto.UpdateShiftRequest{
		IsActive: &inactive,
		Version:  1,
	}); !errors.Is(err, ErrShiftInUse) {
		t.Fatalf("被分配引用的班次不应可经更新停用, got %v", err)
	}
	if !env.shifts.shifts[shift.ShiftID].IsActive {
		t.Fatal("守卫拒绝后班次应保持启用")
	}

	// 解除引用后即可经更新停用
	if _, err := env.assignments.DeactivateByUser(ctx, user.UserID); err != nil {
		t.Fatalf("解除分配失败: %v", err)
	}
	resp, err := svc.Update(ctx, shift.ShiftID, &dto.UpdateShiftRequest{
		IsActive: &inactive,
		Version:  1,
	})
	if err != nil {
		t.Fatalf("更新停用失败: %v", err)
	}
	if resp.IsActive {
		t.Fatal("班次应已停用")
	}
}

func TestDeleteShift(t *testing.T) {
	env := newTestEnv()
	shift := env.seedShift("白班", "09:00", "18:00", true)

	svc := newShiftService(env)
	if err := svc.Delete(context.Background(), shift.ShiftID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}
	if _, ok := env.shifts.shifts[shift.ShiftID]; ok {
		t.Fatal("班次应已删除")
	}

	if err := svc.Delete(context.Background(), shift.ShiftID); !errors.Is(err, ErrShiftNotFound) {
		t.Fatalf("期望 ErrShiftNotFound, got %v", err)
	}
}
