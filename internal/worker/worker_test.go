package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"carta/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockHandler struct{ mock.Mock }

func (m *MockHandler) Process(ctx context.Context, payload json.RawMessage) error {
	return m.Called(ctx, payload).Error(0)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) Enviar(msg infra.Mensaje) error { return m.Called(msg).Error(0) }

type MockPushClient struct{ mock.Mock }

func (m *MockPushClient) Enviar(ctx context.Context, msg infra.PushMensaje) (*infra.PushRespuesta, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.PushRespuesta), args.Error(1)
}

type MockCleaner struct{ mock.Mock }

func (m *MockCleaner) DeleteByTokens(ctx context.Context, tokens []string) error {
	return m.Called(ctx, tokens).Error(0)
}

type dead struct {
	queue, jobType, reason string
}

func newTestPool() (*Pool, *[]dead) {
	var got []dead
	p := &Pool{handlers: map[string]Handler{}}
	p.deadLetter = func(_ context.Context, queue, jobType string, _ json.RawMessage, reason string) {
		got = append(got, dead{queue, jobType, reason})
	}
	return p, &got
}

// --- Pool ---

func TestPool_RoutesJobToHandler(t *testing.T) {
	p, dl := newTestPool()
	h := new(MockHandler)
	p.Handle(JobPush, h)

	raw, err := encodeJob(JobPush, PushJobPayload{Tokens: []string{"t"}, Titulo: "x"})
	require.NoError(t, err)
	h.On("Process", mock.Anything, mock.Anything).Return(nil).Once()

	p.process(context.Background(), QueuePush, string(raw))

	h.AssertExpectations(t)
	assert.Empty(t, *dl)
}

func TestPool_FailedJobGoesToDLQ(t *testing.T) {
	p, dl := newTestPool()
	h := new(MockHandler)
	p.Handle(JobEmail, h)

	raw, _ := encodeJob(JobEmail, EmailJobPayload{Para: []string{"a@b.c"}})
	h.On("Process", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

	p.process(context.Background(), QueueEmail, string(raw))

	require.Len(t, *dl, 1)
	assert.Equal(t, dead{QueueEmail, JobEmail, "smtp down"}, (*dl)[0])
	h.AssertNumberOfCalls(t, "Process", 1)
}

func TestPool_UnknownTypeAndGarbage(t *testing.T) {
	p, dl := newTestPool()

	raw, _ := encodeJob("fax", map[string]string{})
	p.process(context.Background(), QueueEmail, string(raw))
	p.process(context.Background(), QueueEmail, "{not json")

	require.Len(t, *dl, 2)
	assert.Equal(t, "fax", (*dl)[0].jobType)
	assert.Equal(t, "unknown", (*dl)[1].jobType)
}

// --- Email worker ---

func TestEmailWorker_Process(t *testing.T) {
	m := new(MockMailer)
	w := NewEmailWorker(m)
	m.On("Enviar", mock.MatchedBy(func(msg infra.Mensaje) bool {
		return msg.Asunto == "Nuevo pedido #3" && len(msg.Para) == 2 && msg.HTML == "<p>hi</p>"
	})).Return(nil).Once()

	raw, _ := json.Marshal(EmailJobPayload{Para: []string{"a@x.com", "b@x.com"}, Asunto: "Nuevo pedido #3", Texto: "hi", HTML: "<p>hi</p>"})
	assert.NoError(t, w.Process(context.Background(), raw))
	m.AssertExpectations(t)
}

func TestEmailWorker_Errors(t *testing.T) {
	m := new(MockMailer)
	w := NewEmailWorker(m)

	assert.Error(t, w.Process(context.Background(), json.RawMessage(`[`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"para":[]}`)))
	m.AssertNotCalled(t, "Enviar", mock.Anything)

	m.On("Enviar", mock.Anything).Return(infra.ErrCircuitOpen).Once()
	err := w.Process(context.Background(), json.RawMessage(`{"para":["a@x.com"]}`))
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}

// --- Push worker ---

func TestPushWorker_PrunesInvalidTokens(t *testing.T) {
	c := new(MockPushClient)
	cl := new(MockCleaner)
	w := NewPushWorker(c, cl)

	c.On("Enviar", mock.Anything, mock.MatchedBy(func(m infra.PushMensaje) bool {
		return len(m.Tokens) == 2 && m.Titulo == "Nuevo pedido #1"
	})).Return(&infra.PushRespuesta{Enviados: 1, Fallidos: 1, Invalido: []string{"viejo"}}, nil)
	cl.On("DeleteByTokens", mock.Anything, []string{"viejo"}).Return(nil).Once()

	raw, _ := json.Marshal(PushJobPayload{Tokens: []string{"nuevo", "viejo"}, Titulo: "Nuevo pedido #1", Cuerpo: "1x Pizza"})
	assert.NoError(t, w.Process(context.Background(), raw))
	c.AssertExpectations(t)
	cl.AssertExpectations(t)
}

func TestPushWorker_NoTokensIsNoop(t *testing.T) {
	c := new(MockPushClient)
	w := NewPushWorker(c, nil)
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"tokens":[]}`)))
	c.AssertNotCalled(t, "Enviar", mock.Anything, mock.Anything)
}

func TestPushWorker_GatewayError(t *testing.T) {
	c := new(MockPushClient)
	w := NewPushWorker(c, nil)
	c.On("Enviar", mock.Anything, mock.Anything).Return(nil, errors.New("503"))
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"tokens":["a"]}`)))
}
