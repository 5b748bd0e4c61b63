package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PushMensaje is posted to the push gateway, which delivers it to every token.
type PushMensaje struct {
	Tokens []string          `json:"tokens"`
	Titulo string            `json:"title"`
	Cuerpo string            `json:"body"`
	Datos  map[string]string `json:"data,omitempty"`
}

// PushRespuesta reports per-token delivery results.
type PushRespuesta struct {
	Enviados int      `json:"success_count"`
	Fallidos int      `json:"failure_count"`
	Invalido []string `json:"invalid_tokens"`
}

// PushClient talks to the HTTP push gateway. Calls are guarded by a circuit
// breaker so an unavailable gateway does not pile up blocked workers.
type PushClient struct {
	gatewayURL string
	serverKey  string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewPushClient(gatewayURL, serverKey string, cb *CircuitBreaker) *PushClient {
	return &PushClient{
		gatewayURL: gatewayURL,
		serverKey:  serverKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         cb,
	}
}

// Configurado reports whether a gateway URL was provided.
func (c *PushClient) Configurado() bool { return c.gatewayURL != "" }

// Enviar posts msg to the gateway's /send endpoint.
func (c *PushClient) Enviar(ctx context.Context, msg PushMensaje) (*PushRespuesta, error) {
	if !c.Configurado() {
		return nil, fmt.Errorf("push: PUSH_GATEWAY_URL not configured")
	}
	var resp *PushRespuesta
	call := func() error {
		r, err := c.post(ctx, msg)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}
	var err error
	if c.cb != nil {
		err = c.cb.Execute(call)
	} else {
		err = call()
	}
	return resp, err
}

func (c *PushClient) post(ctx context.Context, msg PushMensaje) (*PushRespuesta, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("push: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("push: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.serverKey != "" {
		req.Header.Set("Authorization", "key="+c.serverKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push: gateway unreachable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("push: gateway returned %d: %s", res.StatusCode, bytes.TrimSpace(snippet))
	}

	var out PushRespuesta
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("push: decode response: %w", err)
	}
	return &out, nil
}
