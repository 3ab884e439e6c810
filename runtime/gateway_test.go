package runtime

import (
	"chat-gateway/auth"
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/errors"
	"chat-gateway/mocks"
	"chat-gateway/repositories"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSecret = "runtime_test_secret_long_enough_2026"

type recordingSink struct {
	name   string
	mu     sync.Mutex
	events []event.Envelope
}

func newRecordingSink(name string) *recordingSink {
	return &recordingSink{name: name}
}

func (s *recordingSink) Emit(e event.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Events() []event.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Envelope(nil), s.events...)
}

func (s *recordingSink) Names() []event.Name {
	var names []event.Name
	for _, e := range s.Events() {
		names = append(names, e.Event)
	}
	return names
}

func (s *recordingSink) Named(name event.Name) []event.Envelope {
	var res []event.Envelope
	for _, e := range s.Events() {
		if e.Event == name {
			res = append(res, e)
		}
	}
	return res
}

func (s *recordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// fixture runs the gateway against an in-memory badger directory and real JWTs.
type fixture struct {
	ctx     context.Context
	gateway *Gateway
	store   *repositories.BadgerStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	store := repositories.NewBadgerStore(db, log)
	return &fixture{
		ctx:     context.Background(),
		gateway: NewGateway(log, auth.NewJWTVerifier(testSecret), store),
		store:   store,
	}
}

func (f *fixture) newUser(t *testing.T, name string) domain.User {
	t.Helper()
	user, err := f.store.CreateUser(f.ctx, repositories.NewUser{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) connect(t *testing.T, user domain.User) (*Session, *recordingSink) {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, user, time.Hour)
	require.NoError(t, err)
	sink := newRecordingSink(user.Name)
	session, err := f.gateway.Connect(f.ctx, newConnID(), token, sink)
	require.NoError(t, err)
	return session, sink
}

// mocked runs the gateway against gomock collaborators.
type mocked struct {
	ctx      context.Context
	gateway  *Gateway
	store    *mocks.MockIDirectoryStore
	verifier *mocks.MockVerifier
}

func newMocked(t *testing.T) *mocked {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockIDirectoryStore(ctrl)
	verifier := mocks.NewMockVerifier(ctrl)
	return &mocked{
		ctx:      context.Background(),
		gateway:  NewGateway(logs.GetLoggerFromLevel(slog.LevelDebug), verifier, store),
		store:    store,
		verifier: verifier,
	}
}

func (m *mocked) allowGlobalPresence() {
	m.store.EXPECT().FindUsersByIDs(gomock.Any(), gomock.Any()).Return([]domain.User{}, nil).AnyTimes()
}

func (m *mocked) connect(t *testing.T, user domain.User) (*Session, *recordingSink) {
	t.Helper()
	token := "token-" + string(user.ID)
	m.verifier.EXPECT().Verify(token).Return(user.ID, nil)
	m.store.EXPECT().FindUserByID(gomock.Any(), user.ID).Return(user, nil)
	sink := newRecordingSink(user.Name)
	session, err := m.gateway.Connect(m.ctx, newConnID(), token, sink)
	require.NoError(t, err)
	return session, sink
}

func TestGateway_Connect_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		token   func() string
		wantErr error
		reason  string
	}{
		{
			name:    "missing token",
			token:   func() string { return "" },
			wantErr: errors.ErrMissingToken,
			reason:  "Authorization token missing",
		},
		{
			name:    "unverifiable token",
			token:   func() string { return "not-a-jwt" },
			wantErr: errors.ErrInvalidToken,
			reason:  "Invalid token",
		},
		{
			name: "unknown subject",
			token: func() string {
				token, _ := auth.GenerateToken(testSecret, domain.User{ID: "ghost"}, time.Hour)
				return token
			},
			wantErr: errors.ErrUnknownUser,
			reason:  "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)
			sink := newRecordingSink("anonymous")

			session, err := f.gateway.Connect(f.ctx, newConnID(), tt.token(), sink)

			req.ErrorIs(err, tt.wantErr)
			req.Nil(session)
			req.Equal([]event.Envelope{event.NewError(event.Error, tt.reason)}, sink.Events())
			req.Zero(f.gateway.registry.ConnectionCount())
			req.Empty(f.gateway.registry.users)
		})
	}
}

func TestGateway_Connect_Store_Failure_Reports_Authentication_Failed(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.verifier.EXPECT().Verify("token").Return(domain.UserID("alice"), nil)
	m.store.EXPECT().FindUserByID(gomock.Any(), domain.UserID("alice")).Return(domain.User{}, fmt.Errorf("disk on fire"))
	sink := newRecordingSink("alice")

	_, err := m.gateway.Connect(m.ctx, newConnID(), "token", sink)

	req.Error(err)
	req.False(errors.IsAuthError(err))
	req.Equal([]event.Envelope{event.NewError(event.Error, "Authentication failed")}, sink.Events())
}

func TestGateway_Connect_Emits_Connected_Then_Global_Presence(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.newUser(t, "Alice")
	bob := f.newUser(t, "Bob")

	// When alice connects
	_, aliceSink := f.connect(t, alice)

	// Then she is acknowledged before the global presence arrives
	req.Equal([]event.Envelope{
		event.NewConnected(alice),
		event.NewGlobalPresence(1, []domain.User{alice}),
	}, aliceSink.Events())

	// When bob connects
	_, bobSink := f.connect(t, bob)

	// Then everybody receives the new global presence
	everyone := event.NewGlobalPresence(2, []domain.User{alice, bob})
	req.Equal([]event.Envelope{event.NewConnected(bob), everyone}, bobSink.Events())
	req.Equal(everyone, aliceSink.Events()[2])
}

func TestGateway_Private_Room_Scenario(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")
	aliceSession, aliceSink := f.connect(t, alice)
	bobSession, bobSink := f.connect(t, bob)

	// Given alice creates the private room X
	room, err := f.gateway.CreateRoom(f.ctx, aliceSession, "X", true)
	req.NoError(err)
	req.True(room.IsPrivate)
	req.Equal(alice.ID, room.OwnerID)

	// When bob tries to join it
	bobSink.Reset()
	err = f.gateway.JoinRoom(f.ctx, bobSession, room.ID)

	// Then he is refused and the room presence is untouched
	req.ErrorIs(err, errors.ErrNotAMember)
	req.Equal([]event.Envelope{event.NewError(event.RoomJoinError, "Not allowed to join private room")}, bobSink.Events())
	req.Equal([]domain.UserID{alice.ID}, f.gateway.presence.Members(room.ID))

	// Given bob's membership is added out of band
	_, err = f.store.CreateMembership(f.ctx, bob.ID, room.ID)
	req.NoError(err)

	// When bob retries
	aliceSink.Reset()
	bobSink.Reset()
	err = f.gateway.JoinRoom(f.ctx, bobSession, room.ID)

	// Then he joins and both see [alice, bob]
	req.NoError(err)
	presence := event.NewRoomPresence(room.ID, []domain.UserID{alice.ID, bob.ID})
	req.Equal([]event.Envelope{event.NewRoomJoined(room.ID), presence}, bobSink.Events())
	req.Equal([]event.Envelope{presence}, aliceSink.Events())
}

func TestGateway_Public_Room_Join_Skips_Membership_Check(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.allowGlobalPresence()
	bob := domain.User{ID: "bob", Name: "Bob"}
	session, sink := m.connect(t, bob)

	// Given a public room, FindMembership is never expected
	m.store.EXPECT().FindRoomByID(gomock.Any(), domain.RoomID("general")).
		Return(domain.Room{ID: "general", Name: "General"}, nil)

	err := m.gateway.JoinRoom(m.ctx, session, "general")

	req.NoError(err)
	req.Equal([]domain.UserID{bob.ID}, m.gateway.presence.Members("general"))
	req.Equal([]event.Name{event.Connected, event.GlobalPresence, event.RoomJoined, event.RoomPresence}, sink.Names())
}

func TestGateway_Join_Unknown_Room(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	session, sink := f.connect(t, f.newUser(t, "Alice"))
	sink.Reset()

	err := f.gateway.JoinRoom(f.ctx, session, "nowhere")

	req.ErrorIs(err, errors.ErrRoomNotFound)
	req.Equal([]event.Envelope{event.NewError(event.RoomJoinError, "Room not found")}, sink.Events())
	req.Zero(f.gateway.presence.RoomCount())
	req.Empty(f.gateway.registry.rooms)
}

func TestGateway_Join_Lookup_Failure_Is_Reported(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.allowGlobalPresence()
	session, sink := m.connect(t, domain.User{ID: "bob", Name: "Bob"})
	sink.Reset()
	m.store.EXPECT().FindRoomByID(gomock.Any(), domain.RoomID("general")).Return(domain.Room{}, fmt.Errorf("timeout"))

	err := m.gateway.JoinRoom(m.ctx, session, "general")

	req.Error(err)
	req.Equal([]event.Envelope{event.NewError(event.RoomJoinError, "Failed to join room")}, sink.Events())
	req.Zero(m.gateway.presence.RoomCount())
}

func TestGateway_Private_Membership_Lookup_Failure_Refuses_Join(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.allowGlobalPresence()
	session, _ := m.connect(t, domain.User{ID: "bob", Name: "Bob"})
	m.store.EXPECT().FindRoomByID(gomock.Any(), domain.RoomID("x")).Return(domain.Room{ID: "x", IsPrivate: true}, nil)
	m.store.EXPECT().FindMembership(gomock.Any(), domain.UserID("bob"), domain.RoomID("x")).Return(domain.Membership{}, fmt.Errorf("timeout"))

	err := m.gateway.JoinRoom(m.ctx, session, "x")

	req.ErrorIs(err, errors.ErrNotAMember)
	req.Zero(m.gateway.presence.RoomCount())
}

func TestGateway_Join_Twice_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")
	aliceSession, _ := f.connect(t, alice)
	bobSession, _ := f.connect(t, bob)
	room, err := f.gateway.CreateRoom(f.ctx, aliceSession, "General", false)
	req.NoError(err)

	// When bob joins twice
	req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))
	req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))

	// Then the state is the same as after one join
	req.Equal([]domain.UserID{alice.ID, bob.ID}, f.gateway.presence.Members(room.ID))
	req.Len(f.gateway.presence.rooms[room.ID], 2)
	req.Len(f.gateway.registry.SinksForRoom(room.ID), 2)
}

func TestGateway_CreateRoom_Records_Owner_Membership(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.newUser(t, "Alice")
	session, sink := f.connect(t, alice)
	sink.Reset()

	room, err := f.gateway.CreateRoom(f.ctx, session, "X", true)

	// Then the owner membership exists
	req.NoError(err)
	membership, err := f.store.FindMembership(f.ctx, alice.ID, room.ID)
	req.NoError(err)
	req.Equal(alice.ID, membership.UserID)

	// And the owner is immediately present
	req.True(f.gateway.presence.Contains(room.ID, alice.ID))
	req.Equal([]event.Envelope{
		event.NewRoomCreated(room),
		event.NewRoomPresence(room.ID, []domain.UserID{alice.ID}),
	}, sink.Events())
}

func TestGateway_CreateRoom_Persistence_Failures(t *testing.T) {
	alice := domain.User{ID: "alice", Name: "Alice"}

	t.Run("room write fails", func(t *testing.T) {
		req := require.New(t)
		m := newMocked(t)
		m.allowGlobalPresence()
		session, sink := m.connect(t, alice)
		sink.Reset()
		m.store.EXPECT().CreateRoom(gomock.Any(), repositories.NewRoom{Name: "X", IsPrivate: true, OwnerID: alice.ID}).
			Return(domain.Room{}, fmt.Errorf("disk full"))

		_, err := m.gateway.CreateRoom(m.ctx, session, "X", true)

		req.ErrorIs(err, errors.ErrPersistenceFailed)
		req.Equal([]event.Envelope{event.NewError(event.RoomCreateError, "Failed to create room")}, sink.Events())
		req.Zero(m.gateway.presence.RoomCount())
		req.Empty(m.gateway.registry.rooms)
	})

	t.Run("membership write fails", func(t *testing.T) {
		req := require.New(t)
		m := newMocked(t)
		m.allowGlobalPresence()
		session, sink := m.connect(t, alice)
		sink.Reset()
		m.store.EXPECT().CreateRoom(gomock.Any(), gomock.Any()).Return(domain.Room{ID: "x", OwnerID: alice.ID}, nil)
		m.store.EXPECT().CreateMembership(gomock.Any(), alice.ID, domain.RoomID("x")).
			Return(domain.Membership{}, fmt.Errorf("disk full"))

		_, err := m.gateway.CreateRoom(m.ctx, session, "X", false)

		req.ErrorIs(err, errors.ErrPersistenceFailed)
		req.Equal([]event.Envelope{event.NewError(event.RoomCreateError, "Failed to create room")}, sink.Events())
		req.Zero(m.gateway.presence.RoomCount())
		req.Empty(m.gateway.registry.rooms)
	})
}

func TestGateway_SendMessage_Scenario(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")
	aliceSession, aliceSink := f.connect(t, alice)
	bobSession, bobSink := f.connect(t, bob)
	room, err := f.gateway.CreateRoom(f.ctx, aliceSession, "X", false)
	req.NoError(err)
	req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))
	aliceSink.Reset()
	bobSink.Reset()

	// When alice sends a message while bob is joined
	msg, err := f.gateway.SendMessage(f.ctx, aliceSession, room.ID, "hi")

	// Then bob receives it with the sender attached
	req.NoError(err)
	received := bobSink.Named(event.MessageNew)
	req.Len(received, 1)
	payload, ok := received[0].Data.(event.MessagePayload)
	req.True(ok)
	req.Equal("hi", payload.Content)
	req.Equal(alice.ID, payload.SenderID)
	req.Equal(room.ID, payload.RoomID)
	req.Equal(event.UserSummary{ID: alice.ID, Name: "Alice"}, payload.Sender)
	req.Equal(msg.ID.String(), payload.ID)

	// And the sender, joined through creation, receives it too
	req.Equal(received, aliceSink.Events())
}

func TestGateway_SendMessage_Persistence_Failure(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.allowGlobalPresence()
	aliceSession, aliceSink := m.connect(t, domain.User{ID: "alice", Name: "Alice"})
	bobSession, bobSink := m.connect(t, domain.User{ID: "bob", Name: "Bob"})
	m.store.EXPECT().FindRoomByID(gomock.Any(), domain.RoomID("x")).Return(domain.Room{ID: "x"}, nil)
	req.NoError(m.gateway.JoinRoom(m.ctx, bobSession, "x"))
	aliceSink.Reset()
	bobSink.Reset()

	m.store.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(domain.Message{}, fmt.Errorf("disk full"))

	_, err := m.gateway.SendMessage(m.ctx, aliceSession, "x", "hi")

	// Then nobody receives the message and only the sender hears about the failure
	req.ErrorIs(err, errors.ErrPersistenceFailed)
	req.Empty(bobSink.Events())
	req.Equal([]event.Envelope{event.NewError(event.MessageSendError, "Failed to send message")}, aliceSink.Events())
}

func TestGateway_SendMessage_To_Room_Nobody_Joined(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")
	aliceSession, aliceSink := f.connect(t, alice)
	_, bobSink := f.connect(t, bob)
	room, err := f.store.CreateRoom(f.ctx, repositories.NewRoom{Name: "Quiet", OwnerID: bob.ID})
	req.NoError(err)
	aliceSink.Reset()
	bobSink.Reset()

	// When alice sends to a room she never joined
	msg, err := f.gateway.SendMessage(f.ctx, aliceSession, room.ID, "anyone?")

	// Then it is stored and reaches nobody
	req.NoError(err)
	req.Equal("anyone?", msg.Content)
	req.Empty(aliceSink.Events())
	req.Empty(bobSink.Events())
}

func TestGateway_Broadcast_Follows_Persistence_Order(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.allowGlobalPresence()
	aliceSession, _ := m.connect(t, domain.User{ID: "alice", Name: "Alice"})
	bobSession, bobSink := m.connect(t, domain.User{ID: "bob", Name: "Bob"})
	m.store.EXPECT().FindRoomByID(gomock.Any(), domain.RoomID("x")).Return(domain.Room{ID: "x"}, nil)
	req.NoError(m.gateway.JoinRoom(m.ctx, bobSession, "x"))
	bobSink.Reset()

	// Given the first message is slower to persist than the second
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	m.store.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msg repositories.NewMessage) (domain.Message, error) {
			if msg.Content == "first" {
				close(firstStarted)
				<-release
			}
			return domain.Message{
				ID:        uuid.New(),
				Content:   msg.Content,
				SenderID:  msg.SenderID,
				RoomID:    msg.RoomID,
				CreatedAt: time.Now().UTC(),
				Sender:    domain.Sender{ID: msg.SenderID, Name: "Alice"},
			}, nil
		}).Times(2)

	// When "first" is submitted before "second"
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := m.gateway.SendMessage(m.ctx, aliceSession, "x", "first")
		req.NoError(err)
	}()
	<-firstStarted
	_, err := m.gateway.SendMessage(m.ctx, aliceSession, "x", "second")
	req.NoError(err)
	close(release)
	wg.Wait()

	// Then they are broadcast in persistence completion order
	var contents []string
	for _, e := range bobSink.Named(event.MessageNew) {
		contents = append(contents, e.Data.(event.MessagePayload).Content)
	}
	req.Equal([]string{"second", "first"}, contents)
}

func TestGateway_Disconnect(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")
	aliceSession, _ := f.connect(t, alice)
	bobSession, bobSink := f.connect(t, bob)
	room, err := f.gateway.CreateRoom(f.ctx, aliceSession, "General", false)
	req.NoError(err)
	req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))
	bobSink.Reset()

	// When alice disconnects
	f.gateway.Disconnect(f.ctx, aliceSession.ConnID)

	// Then bob sees her leave the room, then the new global presence
	req.Equal([]event.Envelope{
		event.NewRoomPresence(room.ID, []domain.UserID{bob.ID}),
		event.NewGlobalPresence(1, []domain.User{bob}),
	}, bobSink.Events())
	req.Equal([]domain.UserID{bob.ID}, f.gateway.registry.OnlineUsers())

	// When an unknown connection disconnects nothing is broadcast
	bobSink.Reset()
	f.gateway.Disconnect(f.ctx, newConnID())
	req.Empty(bobSink.Events())

	// When bob disconnects no live state is left
	f.gateway.Disconnect(f.ctx, bobSession.ConnID)
	req.Empty(f.gateway.registry.users)
	req.Empty(f.gateway.registry.rooms)
	req.Empty(f.gateway.registry.joined)
	req.Empty(f.gateway.presence.rooms)
}

func TestGateway_Disconnect_With_Other_Live_Connections(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")

	t.Run("another connection still joined keeps the user in the room", func(t *testing.T) {
		req := require.New(t)
		laptop, _ := f.connect(t, alice)
		phone, _ := f.connect(t, alice)
		bobSession, bobSink := f.connect(t, bob)
		room, err := f.gateway.CreateRoom(f.ctx, laptop, "Both", false)
		req.NoError(err)
		req.NoError(f.gateway.JoinRoom(f.ctx, phone, room.ID))
		req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))
		bobSink.Reset()

		f.gateway.Disconnect(f.ctx, laptop.ConnID)

		req.Equal([]domain.UserID{alice.ID, bob.ID}, f.gateway.presence.Members(room.ID))
		req.Equal([]event.Name{event.GlobalPresence}, bobSink.Names())

		f.gateway.Disconnect(f.ctx, phone.ConnID)
		f.gateway.Disconnect(f.ctx, bobSession.ConnID)
	})

	t.Run("another connection not joined does not keep the user in the room", func(t *testing.T) {
		req := require.New(t)
		laptop, _ := f.connect(t, alice)
		phone, _ := f.connect(t, alice)
		bobSession, bobSink := f.connect(t, bob)
		room, err := f.gateway.CreateRoom(f.ctx, laptop, "Laptop only", false)
		req.NoError(err)
		req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))
		bobSink.Reset()

		f.gateway.Disconnect(f.ctx, laptop.ConnID)

		req.Equal([]domain.UserID{bob.ID}, f.gateway.presence.Members(room.ID))
		req.Contains(f.gateway.registry.OnlineUsers(), alice.ID)
		req.Equal([]event.Name{event.RoomPresence, event.GlobalPresence}, bobSink.Names())

		f.gateway.Disconnect(f.ctx, phone.ConnID)
		f.gateway.Disconnect(f.ctx, bobSession.ConnID)
	})
}

func TestGateway_LeaveRoom(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice, bob := f.newUser(t, "Alice"), f.newUser(t, "Bob")
	aliceSession, aliceSink := f.connect(t, alice)
	bobSession, bobSink := f.connect(t, bob)
	room, err := f.gateway.CreateRoom(f.ctx, aliceSession, "General", false)
	req.NoError(err)
	req.NoError(f.gateway.JoinRoom(f.ctx, bobSession, room.ID))
	aliceSink.Reset()
	bobSink.Reset()

	// When bob leaves
	f.gateway.LeaveRoom(f.ctx, bobSession, room.ID)

	// Then he is acknowledged and alice sees the new presence
	req.Equal([]event.Envelope{event.NewRoomLeft(room.ID)}, bobSink.Events())
	req.Equal([]event.Envelope{event.NewRoomPresence(room.ID, []domain.UserID{alice.ID})}, aliceSink.Events())

	// When the last member leaves the room key disappears
	f.gateway.LeaveRoom(f.ctx, aliceSession, room.ID)
	req.Zero(f.gateway.presence.RoomCount())
	req.Empty(f.gateway.registry.rooms)

	// And later messages reach nobody
	aliceSink.Reset()
	bobSink.Reset()
	_, err = f.gateway.SendMessage(f.ctx, aliceSession, room.ID, "echo")
	req.NoError(err)
	req.Empty(aliceSink.Events())
	req.Empty(bobSink.Events())
}

func TestGateway_Global_Presence_Failure_Is_Contained(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.store.EXPECT().FindUsersByIDs(gomock.Any(), []domain.UserID{"alice"}).Return(nil, fmt.Errorf("timeout"))

	session, sink := m.connect(t, domain.User{ID: "alice", Name: "Alice"})

	req.NotNil(session)
	req.Equal([]event.Name{event.Connected}, sink.Names())
	req.Equal([]domain.UserID{"alice"}, m.gateway.registry.OnlineUsers())
}

func TestGateway_Join_Racing_Disconnect(t *testing.T) {
	req := require.New(t)
	m := newMocked(t)
	m.allowGlobalPresence()
	session, sink := m.connect(t, domain.User{ID: "bob", Name: "Bob"})
	sink.Reset()

	// Given the connection goes away while the room lookup is in flight
	m.store.EXPECT().FindRoomByID(gomock.Any(), domain.RoomID("general")).DoAndReturn(
		func(ctx context.Context, id domain.RoomID) (domain.Room, error) {
			m.gateway.Disconnect(ctx, session.ConnID)
			return domain.Room{ID: id}, nil
		})

	err := m.gateway.JoinRoom(m.ctx, session, "general")

	// Then the late join leaves no trace in the live indices
	req.NoError(err)
	req.Zero(m.gateway.presence.RoomCount())
	req.Empty(m.gateway.registry.rooms)
	req.Empty(sink.Named(event.RoomJoined))
}

func TestGateway_Reject(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	session, sink := f.connect(t, f.newUser(t, "Alice"))
	sink.Reset()

	f.gateway.Reject(session, event.RoomJoinError, errors.ErrInvalidPayload)
	f.gateway.Reject(session, event.MessageSendError, fmt.Errorf("boom"))

	req.Equal([]event.Envelope{
		event.NewError(event.RoomJoinError, "Invalid payload"),
		event.NewError(event.MessageSendError, "Failed to send message"),
	}, sink.Events())
}

func TestGateway_Stats(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	alice := f.newUser(t, "Alice")
	laptop, _ := f.connect(t, alice)
	f.connect(t, alice)
	_, err := f.gateway.CreateRoom(f.ctx, laptop, "General", false)
	req.NoError(err)

	stats := f.gateway.Stats()

	req.Equal(2, stats.Connections)
	req.Equal(1, stats.OnlineUsers)
	req.Equal(1, stats.ActiveRooms)
}
