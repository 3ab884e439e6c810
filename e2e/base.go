// Package e2e drives a running gateway from the outside. Suites skip unless GATEWAY_URL is set.
package e2e

import (
	"bytes"
	"chat-gateway/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

type BaseSuite struct {
	suite.Suite
	Config Config
}

type Frame struct {
	Event event.Name      `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.GatewayURL == "" {
		s.T().Skip("GATEWAY_URL not set")
	}
}

func (s *BaseSuite) step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// GrpcConn opens a logged gRPC connection.
func (s *BaseSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	s.step(t, name)

	marshaler := protojson.MarshalOptions{
		UseProtoNames:   true,
		Multiline:       true,
		EmitUnpopulated: true,
	}

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
			if s.Config.DebugJSON {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, marshaler.Format(req.(proto.Message)))
				if err == nil {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, marshaler.Format(reply.(proto.Message)))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

func (s *BaseSuite) WithHealth(name string, fn func(ctx context.Context, client healthpb.HealthClient)) {
	conn := s.GrpcConn(s.T(), name, s.Config.HealthAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	fn(ctx, healthpb.NewHealthClient(conn))
}

// Login exchanges credentials for an access token.
func (s *BaseSuite) Login(email, password string) string {
	s.step(s.T(), "Login "+email)
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	s.Require().NoError(err)

	resp, err := http.Post(strings.TrimRight(s.Config.GatewayURL, "/")+"/auth/login", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	s.Require().NotEmpty(payload.AccessToken)
	return payload.AccessToken
}

func (s *BaseSuite) Dial(token string) *websocket.Conn {
	u, err := url.Parse(s.Config.GatewayURL)
	s.Require().NoError(err)
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.Path = "/chat"
	u.RawQuery = url.Values{"token": []string{token}}.Encode()

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *BaseSuite) Send(conn *websocket.Conn, name event.Name, data any) {
	s.Require().NoError(conn.WriteJSON(map[string]any{"event": name, "data": data}))
}

// Await skips frames until one named name arrives and decodes its data into out.
func (s *BaseSuite) Await(conn *websocket.Conn, name event.Name, out any) {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		var f Frame
		s.Require().NoError(conn.ReadJSON(&f), "waiting for %s", name)
		if f.Event != name {
			continue
		}
		if out != nil {
			s.Require().NoError(json.Unmarshal(f.Data, out))
		}
		return
	}
}
