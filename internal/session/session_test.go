package session

import (
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewManager(logrus.NewEntry(log))
}

type closeRecorder struct {
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestServerLifecycle(t *testing.T) {
	m := testManager()
	assert.Equal(t, StateIdle, m.Status().State)

	require.NoError(t, m.Listen())
	assert.Equal(t, StateListening, m.Status().State)

	conn := &closeRecorder{}
	ctx, err := m.Connect(conn)
	require.NoError(t, err)
	assert.Equal(t, StateConnected, m.Status().State)
	assert.True(t, m.Active())
	assert.NotEmpty(t, m.SessionID())
	assert.NoError(t, ctx.Err())

	// Client went away: back through Disconnected, then re-listen.
	m.Disconnect(nil)
	assert.Equal(t, StateDisconnected, m.Status().State)
	assert.True(t, conn.closed)
	assert.Error(t, ctx.Err())

	require.NoError(t, m.Listen())
	assert.Equal(t, StateListening, m.Status().State)

	m.Stop()
	assert.Equal(t, StateIdle, m.Status().State)
}

func TestClientLifecycle(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Dial())
	assert.Equal(t, StateConnecting, m.Status().State)

	conn := &closeRecorder{}
	ctx, err := m.Connect(conn)
	require.NoError(t, err)

	m.Disconnect(errors.New("connection reset"))
	st := m.Status()
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, "connection reset", st.Message)
	assert.True(t, conn.closed)
	assert.Error(t, ctx.Err())

	m.Stop()
	assert.Equal(t, StateIdle, m.Status().State)
}

func TestDialFailure(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Dial())
	m.Fail(errors.New("connection refused"))
	st := m.Status()
	assert.Equal(t, StateError, st.State)
	assert.Contains(t, st.Message, "refused")
}

func TestInvalidTransitions(t *testing.T) {
	m := testManager()

	// Cannot reach Connected from Idle without listening or dialing first.
	_, err := m.Connect(&closeRecorder{})
	assert.Error(t, err)

	require.NoError(t, m.Listen())
	assert.Error(t, m.Dial(), "listening endpoint cannot start dialing")

	_, err = m.Connect(&closeRecorder{})
	require.NoError(t, err)
	_, err = m.Connect(&closeRecorder{})
	assert.Error(t, err, "second Connect while one is active")
}

func TestDisconnectIsIdempotent(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Listen())
	_, err := m.Connect(&closeRecorder{})
	require.NoError(t, err)

	m.Disconnect(errors.New("first"))
	st := m.Status()
	m.Disconnect(errors.New("second"))
	assert.Equal(t, st, m.Status(), "later Disconnects do not overwrite the first outcome")
}

func TestUpdatesAreDelivered(t *testing.T) {
	m := testManager()
	require.NoError(t, m.Listen())
	_, err := m.Connect(&closeRecorder{})
	require.NoError(t, err)
	m.Disconnect(nil)

	var states []State
	for len(m.Updates()) > 0 {
		states = append(states, (<-m.Updates()).State)
	}
	assert.Equal(t, []State{StateListening, StateConnected, StateDisconnected}, states)
}
