package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/componentbot/internal/app/componentid"
)

type componentCall struct {
	args   []string
	values []string
	user   string
}

type fakeCommand struct {
	commandBase
	err       error
	panicWith any

	mu    sync.Mutex
	calls []componentCall
}

func newFakeCommand(name string) *fakeCommand {
	return &fakeCommand{commandBase: commandBase{def: &discordgo.ApplicationCommand{Name: name, Description: name}}}
}

func (f *fakeCommand) OnSlashCommand(context.Context, *Ctx) error {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.err
}

func (f *fakeCommand) OnComponent(_ context.Context, c *Ctx, args []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, componentCall{args: args, values: c.Values, user: c.UserID})
	f.mu.Unlock()
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.err
}

func (f *fakeCommand) Calls() []componentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]componentCall(nil), f.calls...)
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestRouter(t *testing.T, ids *componentid.Codec, cmds ...SlashCommand) *Router {
	t.Helper()
	reg, err := NewRegistry(cmds...)
	require.NoError(t, err)
	return NewRouter(nil, "g1", reg, ids, discardLogger(), 0)
}

func componentInteraction(customID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "g1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "u1"}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID, Values: values},
	}}
}

func TestRoute_DispatchesToOwningCommand(t *testing.T) {
	ids := componentid.NewCodec(componentid.NewCounter())
	h1, h2 := newFakeCommand("role-select"), newFakeCommand("vc-activity")
	r := newTestRouter(t, ids, h1, h2)

	id1 := ids.MustMint("role-select", "42")
	id2 := ids.MustMint("vc-activity", "a", "b")

	res := r.Route(context.Background(), nil, componentInteraction(id1.String(), "r1", "r2"))
	assert.Equal(t, Dispatched, res.Outcome)
	assert.Equal(t, "role-select", res.Command)
	assert.NoError(t, res.Err)

	res = r.Route(context.Background(), nil, componentInteraction(id2.String()))
	assert.Equal(t, Dispatched, res.Outcome)
	assert.Equal(t, "vc-activity", res.Command)

	require.Len(t, h1.Calls(), 1)
	assert.Equal(t, []string{"42"}, h1.Calls()[0].args)
	assert.Equal(t, []string{"r1", "r2"}, h1.Calls()[0].values)
	assert.Equal(t, "u1", h1.Calls()[0].user)

	require.Len(t, h2.Calls(), 1)
	assert.Equal(t, []string{"a", "b"}, h2.Calls()[0].args)
}

func TestRoute_RejectsUndecodableCustomID(t *testing.T) {
	ids := componentid.NewCodec(nil)
	h1, h2 := newFakeCommand("role-select"), newFakeCommand("vc-activity")
	r := newTestRouter(t, ids, h1, h2)

	for _, wire := range []string{"", "garbage", `{"command":"role-select"}`, "x|role-select|42", `1|role-select|a\`} {
		res := r.Route(context.Background(), nil, componentInteraction(wire))
		assert.Equal(t, Rejected, res.Outcome, "wire %q", wire)
		assert.ErrorIs(t, res.Err, componentid.ErrDecode, "wire %q", wire)

		var de *componentid.DecodeError
		assert.True(t, errors.As(res.Err, &de))
	}
	assert.Empty(t, h1.Calls())
	assert.Empty(t, h2.Calls())
}

func TestRoute_RejectsUnknownCommand(t *testing.T) {
	ids := componentid.NewCodec(nil)
	h1 := newFakeCommand("role-select")
	r := newTestRouter(t, ids, h1)

	res := r.Route(context.Background(), nil, componentInteraction(ids.MustMint("queue", "join").String()))
	assert.Equal(t, Rejected, res.Outcome)
	assert.Equal(t, "queue", res.Command)
	assert.ErrorIs(t, res.Err, ErrUnknownCommand)
	assert.NotErrorIs(t, res.Err, componentid.ErrDecode)
	assert.Empty(t, h1.Calls())
}

func TestRoute_ReportsHandlerError(t *testing.T) {
	ids := componentid.NewCodec(nil)
	h1 := newFakeCommand("role-select")
	h1.err = errors.New("boom")
	r := newTestRouter(t, ids, h1)

	res := r.Route(context.Background(), nil, componentInteraction(ids.MustMint("role-select").String()))
	assert.Equal(t, Dispatched, res.Outcome)
	assert.EqualError(t, res.Err, "boom")
}

func TestRoute_SurvivesRestart(t *testing.T) {
	before := componentid.NewCodec(componentid.NewCounter())
	for i := 0; i < 5; i++ {
		before.MustMint("ping", "0")
	}
	wire := before.MustMint("role-select", "42").String()

	// proceso nuevo: contador, codec y registro nuevos
	after := componentid.NewCodec(componentid.NewCounter())
	h1, h2 := newFakeCommand("role-select"), newFakeCommand("vc-activity")
	r := newTestRouter(t, after, h1, h2)

	res := r.Route(context.Background(), nil, componentInteraction(wire))
	require.Equal(t, Dispatched, res.Outcome)
	require.Len(t, h1.Calls(), 1)
	assert.Equal(t, []string{"42"}, h1.Calls()[0].args)
	assert.Empty(t, h2.Calls())
}

func TestRoute_IgnoresNonComponentInteractions(t *testing.T) {
	r := newTestRouter(t, componentid.NewCodec(nil), newFakeCommand("role-select"))
	ic := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionApplicationCommand}}

	res := r.Route(context.Background(), nil, ic)
	assert.Equal(t, Rejected, res.Outcome)
	assert.Error(t, res.Err)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "dispatched", Dispatched.String())
}

func TestCtx_ComponentIDUsesOwnCommand(t *testing.T) {
	ids := componentid.NewCodec(nil)
	r := newTestRouter(t, ids, newFakeCommand("ping"))
	c := r.newCtx(nil, componentInteraction("0|ping"), "ping")

	wire, err := c.ComponentID("7")
	require.NoError(t, err)
	id, err := ids.Parse(wire)
	require.NoError(t, err)
	assert.Equal(t, "ping", id.Command())
	assert.Equal(t, []string{"7"}, id.Elements())
}

func TestInteractionUserID(t *testing.T) {
	assert.Equal(t, "u1", interactionUserID(componentInteraction("")))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "u2"}}}
	assert.Equal(t, "u2", interactionUserID(dm))

	assert.Empty(t, interactionUserID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}

func TestMayBeBotMessage(t *testing.T) {
	deleted := func(author, before *discordgo.User) *discordgo.MessageDelete {
		md := &discordgo.MessageDelete{Message: &discordgo.Message{ID: "m1", GuildID: "g1", Author: author}}
		if before != nil {
			md.BeforeDelete = &discordgo.Message{ID: "m1", Author: before}
		}
		return md
	}
	bot := &discordgo.User{ID: "bot"}
	user := &discordgo.User{ID: "u1"}

	assert.True(t, mayBeBotMessage(deleted(nil, nil), "bot"), "autor desconocido")
	assert.True(t, mayBeBotMessage(deleted(bot, nil), "bot"))
	assert.True(t, mayBeBotMessage(deleted(nil, bot), "bot"))
	assert.False(t, mayBeBotMessage(deleted(user, nil), "bot"))
	assert.False(t, mayBeBotMessage(deleted(nil, user), "bot"))
}

type deleteRecorder struct {
	*fakeCommand
	mu      sync.Mutex
	deleted []string
}

func (d *deleteRecorder) OnMessageDelete(_ context.Context, _, messageID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, messageID)
}

func TestOnMessageDelete_SkipsOtherAuthors(t *testing.T) {
	rec := &deleteRecorder{fakeCommand: newFakeCommand("role-select")}
	r := newTestRouter(t, componentid.NewCodec(nil), rec)

	state := discordgo.NewState()
	state.User = &discordgo.User{ID: "bot"}
	s := &discordgo.Session{State: state}

	del := func(id, guild string, author *discordgo.User) *discordgo.MessageDelete {
		return &discordgo.MessageDelete{Message: &discordgo.Message{ID: id, GuildID: guild, Author: author}}
	}
	r.onMessageDelete(s, del("m1", "g1", nil))
	r.onMessageDelete(s, del("m2", "g1", &discordgo.User{ID: "bot"}))
	r.onMessageDelete(s, del("m3", "g1", &discordgo.User{ID: "u1"}))
	r.onMessageDelete(s, del("m4", "other-guild", nil))

	assert.Equal(t, []string{"m1", "m2"}, rec.deleted)
}
