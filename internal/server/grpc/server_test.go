package grpc

import (
	"context"
	"encoding/base64"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/lifelog/internal/blob"
	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/logging"
	"github.com/dmitrijs2005/lifelog/internal/server/config"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lifelog/internal/server/services"
	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const testSecret = "secret"

func newTestServer(t *testing.T, opts Options) (*GRPCServer, *services.Services) {
	t.Helper()
	m := repomanager.NewStoreRepositoryManager(store.NewMemory(repomanager.Schemas()...))
	cfg := &config.Config{
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: time.Hour,
		UploadURLPrefix:             "/uploads/",
	}
	svc := services.New(m, blob.NewMemoryStore(), cfg, logging.Discard())
	opts.SecretKey = testSecret
	return NewGRPCServer("127.0.0.1:0", logging.Discard(), svc, opts), svc
}

// dial serves s over an in-memory listener and returns a client for it.
func dial(t *testing.T, s *GRPCServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func call(t *testing.T, conn *grpc.ClientConn, token, method string, in map[string]any) (map[string]any, error) {
	t.Helper()
	if in == nil {
		in = map[string]any{}
	}
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, FullMethod(method), req, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func register(t *testing.T, conn *grpc.ClientConn, username string) string {
	t.Helper()
	out, err := call(t, conn, "", "Register", map[string]any{"username": username, "password": "pw-" + username})
	require.NoError(t, err)
	token, _ := out["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func items(t *testing.T, out map[string]any) []any {
	t.Helper()
	list, ok := out["items"].([]any)
	require.True(t, ok, "response has items: %v", out)
	return list
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	srv.address = "127.0.0.1:99999"
	assert.Error(t, srv.Run(context.Background()))
}

func TestE2E_JournalLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	conn := dial(t, srv)

	alice := register(t, conn, "alice")
	bob := register(t, conn, "bob")

	created, err := call(t, conn, alice, "CreateJournal", map[string]any{
		"content": "first day of spring", "mood": "HAPPY", "tags": []any{"season"}, "ownerId": "someone-else",
	})
	require.NoError(t, err)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.NotEqual(t, "someone-else", created["ownerId"])

	out, err := call(t, conn, bob, "ListJournal", nil)
	require.NoError(t, err)
	assert.Empty(t, items(t, out))

	out, err = call(t, conn, alice, "SearchJournal", map[string]any{"query": "spring"})
	require.NoError(t, err)
	assert.Len(t, items(t, out), 1)

	out, err = call(t, conn, alice, "SearchJournal", map[string]any{"query": "winter"})
	require.NoError(t, err)
	assert.Empty(t, items(t, out))

	_, err = call(t, conn, bob, "GetJournal", map[string]any{"id": id})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = call(t, conn, alice, "DeleteJournal", map[string]any{"id": id})
	require.NoError(t, err)
	_, err = call(t, conn, alice, "DeleteJournal", map[string]any{"id": id})
	require.NoError(t, err)

	_, err = call(t, conn, alice, "GetJournal", map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = call(t, conn, alice, "UpdateJournal", map[string]any{"id": id, "content": "x", "mood": "SAD"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = call(t, conn, alice, "CreateJournal", map[string]any{"content": "no mood"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = call(t, conn, alice, "GetJournal", nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestE2E_AuthRequired(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	conn := dial(t, srv)

	_, err := call(t, conn, "", "ListPlaces", nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = call(t, conn, "", "Login", map[string]any{"username": "nobody", "password": "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	register(t, conn, "carol")
	_, err = call(t, conn, "", "Register", map[string]any{"username": "carol", "password": "again"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	out, err := call(t, conn, "", "Login", map[string]any{"username": "carol", "password": "pw-carol"})
	require.NoError(t, err)
	token, _ := out["accessToken"].(string)
	_, err = call(t, conn, token, "ListPlaces", nil)
	assert.NoError(t, err)
}

func TestE2E_MaskForbidden(t *testing.T) {
	srv, _ := newTestServer(t, Options{MaskForbidden: true})
	conn := dial(t, srv)

	alice := register(t, conn, "alice")
	bob := register(t, conn, "bob")

	created, err := call(t, conn, alice, "CreateTaste", map[string]any{"type": "BOOK", "title": "Dune", "rating": 5})
	require.NoError(t, err)
	assert.EqualValues(t, 5, created["rating"])

	_, err = call(t, conn, bob, "GetTaste", map[string]any{"id": created["id"]})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "not found", status.Convert(err).Message())

	_, err = call(t, conn, alice, "CreateTaste", map[string]any{"type": "BOOK", "title": "Dune", "rating": 6})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestE2E_PhotoUploadAndContent(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	conn := dial(t, srv)
	alice := register(t, conn, "alice")

	raw := []byte("\x89PNG fake image")
	up, err := call(t, conn, alice, "UploadPhoto", map[string]any{
		"filename":    "cat.png",
		"contentType": "image/png",
		"content":     base64.StdEncoding.EncodeToString(raw),
		"metadata":    map[string]any{"story": "the cat", "tags": []any{"pets"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "the cat", up["story"])
	assert.Contains(t, up["imageUrl"], "/uploads/photos/")

	out, err := call(t, conn, alice, "GetPhotoContent", map[string]any{"id": up["id"]})
	require.NoError(t, err)
	got, err := base64.StdEncoding.DecodeString(out["content"].(string))
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	out, err = call(t, conn, alice, "PhotosByTag", map[string]any{"tag": "pets"})
	require.NoError(t, err)
	assert.Len(t, items(t, out), 1)

	_, err = call(t, conn, alice, "DeletePhoto", map[string]any{"id": up["id"]})
	require.NoError(t, err)
	_, err = call(t, conn, alice, "GetPhoto", map[string]any{"id": up["id"]})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestE2E_LifePhaseTimeline(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	conn := dial(t, srv)
	alice := register(t, conn, "alice")

	phase, err := call(t, conn, alice, "CreateLifePhase", map[string]any{"name": "Lisbon", "startDate": "2023-05-01"})
	require.NoError(t, err)
	_, err = call(t, conn, alice, "CreatePlace", map[string]any{
		"name": "Alfama", "type": "CITY", "status": "VISITED", "latitude": 38.71, "longitude": -9.13, "lifePhaseName": "Lisbon",
	})
	require.NoError(t, err)

	out, err := call(t, conn, alice, "LifePhaseTimeline", map[string]any{"id": phase["id"]})
	require.NoError(t, err)
	places, ok := out["places"].([]any)
	require.True(t, ok)
	assert.Len(t, places, 1)
}

func TestE2E_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, _ := newTestServer(t, Options{Metrics: NewMetrics(reg)})
	conn := dial(t, srv)

	register(t, conn, "alice")
	_, err := call(t, conn, "", "ListJournal", nil)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "lifelog_grpc_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			var method, code string
			for _, l := range m.GetLabel() {
				switch l.GetName() {
				case "method":
					method = l.GetValue()
				case "code":
					code = l.GetValue()
				}
			}
			counts[method+" "+code] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, counts[FullMethod("Register")+" OK"])
	assert.Equal(t, 1.0, counts[FullMethod("ListJournal")+" Unauthenticated"])
}
