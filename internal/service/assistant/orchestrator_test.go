package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	assistant "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/repository/memory"
	"harmonyhealth/internal/service/plan"
	"harmonyhealth/internal/service/profile"
)

// fakeProvider replays canned replies and records every request
type fakeProvider struct {
	replies  []*assistant.Message
	err      error
	requests []*assistantSvc.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req *assistantSvc.CompletionRequest) (*assistant.Message, error) {
	snapshot := *req
	snapshot.Messages = append([]assistant.Message(nil), req.Messages...)
	f.requests = append(f.requests, &snapshot)

	if f.err != nil {
		return nil, f.err
	}
	// the last reply repeats once the script runs out
	i := len(f.requests) - 1
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	reply := *f.replies[i]
	return &reply, nil
}

func toolReply(calls ...assistant.ToolCall) *assistant.Message {
	return &assistant.Message{Role: assistant.RoleAssistant, ToolCalls: calls}
}

func textReply(content string) *assistant.Message {
	return &assistant.Message{Role: assistant.RoleAssistant, Content: content}
}

type harness struct {
	chat     assistantSvc.ChatService
	provider *fakeProvider
	owner    int64
	profiles *memory.ProfileRepository
	plans    *memory.PlanRepository
}

func newHarness(t *testing.T, maxTurns int, replies ...*assistant.Message) *harness {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	profiles := memory.NewProfileRepository(store)
	plans := memory.NewPlanRepository(store)
	tx := memory.NewTransactionManager(store)

	owner := &models.User{Username: "zhang"}
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, profiles.Create(ctx, models.NewDefaultProfile(owner.ID)))

	provider := &fakeProvider{replies: replies}
	chat, err := NewChatServiceWithProvider(
		provider,
		maxTurns,
		profile.NewProfileService(profiles, logger),
		plan.NewPlanService(plans, users, tx, logger),
		logger,
	)
	require.NoError(t, err)

	return &harness{
		chat:     chat,
		provider: provider,
		owner:    owner.ID,
		profiles: profiles.(*memory.ProfileRepository),
		plans:    plans.(*memory.PlanRepository),
	}
}

func (h *harness) send(message string, history ...json.RawMessage) (*assistantSvc.ChatReply, error) {
	return h.chat.Chat(context.Background(), &assistantSvc.ChatRequest{
		OwnerID: h.owner,
		Message: message,
		History: history,
	})
}

func TestChat_UpdatesProfileThenAnswers(t *testing.T) {
	h := newHarness(t, 5,
		toolReply(assistant.NewToolCall("call_1", "update_user_info", `{"height":180}`)),
		textReply("已更新"),
	)

	reply, err := h.send("我身高180")
	require.NoError(t, err)

	assert.Equal(t, "已更新", reply.Reply)
	require.Len(t, reply.History, 5)
	roles := make([]assistant.Role, 0, len(reply.History))
	for _, m := range reply.History {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []assistant.Role{
		assistant.RoleSystem,
		assistant.RoleUser,
		assistant.RoleAssistant,
		assistant.RoleTool,
		assistant.RoleAssistant,
	}, roles)
	assert.Equal(t, "call_1", reply.History[3].ToolCallID)

	var result assistant.Result
	require.NoError(t, json.Unmarshal([]byte(reply.History[3].Content), &result))
	assert.Equal(t, assistant.CodeOK, result.Code)

	stored, err := h.profiles.GetByUserID(context.Background(), h.owner)
	require.NoError(t, err)
	assert.Equal(t, 180.0, stored.Height)

	require.Len(t, h.provider.requests, 2)
	assert.Len(t, h.provider.requests[0].Tools, 7)
	assert.Len(t, h.provider.requests[1].Messages, 4)
}

func TestChat_ReplaysHistory(t *testing.T) {
	h := newHarness(t, 5, textReply("你好"))

	prior := []json.RawMessage{
		json.RawMessage(`{"role":"system","content":"stale policy"}`),
		json.RawMessage(`{"role":"user","content":"早上好"}`),
		json.RawMessage(`{"role":"assistant","content":"早上好！"}`),
	}
	reply, err := h.send("你好", prior...)
	require.NoError(t, err)

	require.Len(t, reply.History, 5)
	assert.NotEqual(t, "stale policy", reply.History[0].Content)
	assert.Equal(t, "早上好", reply.History[1].Content)
	assert.Equal(t, "你好", reply.History[3].Content)
}

func TestChat_TimeoutAfterMaxTurns(t *testing.T) {
	h := newHarness(t, 3,
		toolReply(assistant.NewToolCall("call_1", "get_user_info", `{}`)),
	)

	_, err := h.send("我的信息")

	var timeout *assistantSvc.TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, 3, timeout.Turns)
	assert.Len(t, h.provider.requests, 3)
	assert.Equal(t, "max turns exceeded", timeout.Result().Message)
}

func TestChat_AbortsOnFirstFailedTool(t *testing.T) {
	h := newHarness(t, 5,
		toolReply(
			assistant.NewToolCall("call_1", "create_or_update_plans", `{"title":"晨跑","day_of_week":1,"start_time":"08:00","end_time":"09:00"}`),
			assistant.NewToolCall("call_2", "delete_plan", `{"plan_id":999}`),
			assistant.NewToolCall("call_3", "delete_all_plans", `{}`),
		),
		textReply("不会到达"),
	)

	_, err := h.send("帮我安排晨跑")

	var failed *assistantSvc.ToolFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "delete_plan", failed.Tool)
	assert.Equal(t, "call_2", failed.CallID)
	assert.Equal(t, assistant.CodeNotFound, failed.Result().Code)

	// call 1 stays applied, call 3 never ran
	plans, err := h.plans.List(context.Background(), h.owner, models.PlanFilter{})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "晨跑", plans[0].Title)
	assert.Len(t, h.provider.requests, 1)
}

func TestChat_UnknownTool(t *testing.T) {
	h := newHarness(t, 5,
		toolReply(assistant.NewToolCall("call_1", "format_disk", `{}`)),
	)

	_, err := h.send("随便")

	var unknown *assistantSvc.UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "format_disk", unknown.Name)
}

func TestChat_ValidationResultAborts(t *testing.T) {
	h := newHarness(t, 5,
		toolReply(assistant.NewToolCall("call_1", "create_or_update_plans", `{"title":"晨跑","day_of_week":9,"start_time":"08:00","end_time":"09:00"}`)),
	)

	_, err := h.send("周九跑步")

	var failed *assistantSvc.ToolFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, assistant.CodeValidation, failed.Outcome.Code)
}

func TestChat_ProviderErrorIsInternal(t *testing.T) {
	h := newHarness(t, 5, textReply("unused"))
	h.provider.err = errors.New("connection reset")

	_, err := h.send("你好")

	var internal *assistantSvc.InternalError
	require.True(t, errors.As(err, &internal))
	assert.Equal(t, "model completion", internal.Op)
	assert.Equal(t, assistant.CodeInternal, internal.Result().Code)
}

func TestChat_RejectsEmptyMessage(t *testing.T) {
	h := newHarness(t, 5, textReply("unused"))

	_, err := h.send("   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, h.provider.requests)
}

func TestNewLoop_ClampsTurns(t *testing.T) {
	loop := NewLoop(&fakeProvider{}, nil, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 1, loop.maxTurns)
}
