package scene

import (
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/planetz/world"
)

func TestGraphOps(t *testing.T) {
	g := NewGraph()
	if _, ok := g.Camera(); ok {
		t.Error("fresh graph has a camera")
	}
	obj := world.SceneObject{ID: "target-wireframe", Kind: "wireframe", RenderOrder: 999}
	if err := g.Add(obj); err != nil {
		t.Fatal(err)
	}
	if err := g.Add(obj); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate add = %v", err)
	}
	if err := g.Update(world.SceneObject{ID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing = %v", err)
	}
	g.Add(world.SceneObject{ID: "target-outline", Kind: "outline", RenderOrder: 998})

	objs := g.Objects()
	if len(objs) != 2 || objs[0].ID != "target-outline" {
		t.Errorf("objects not in render order: %+v", objs)
	}
	if g.CountKind("wireframe") != 1 {
		t.Errorf("wireframes = %d", g.CountKind("wireframe"))
	}
	if err := g.Remove("target-wireframe"); err != nil {
		t.Fatal(err)
	}
	if err := g.Remove("target-wireframe"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove = %v", err)
	}

	g.MoveCamera(world.Vec3{1, 2, 3})
	if cam, ok := g.Camera(); !ok || cam.Position != (world.Vec3{1, 2, 3}) {
		t.Errorf("camera = %+v", cam)
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readOp(t *testing.T, conn *websocket.Conn) Op {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var op Op
	if err := conn.ReadJSON(&op); err != nil {
		t.Fatal(err)
	}
	return op
}

func TestBridgeStreamsOps(t *testing.T) {
	b := NewBridge(nil, log.New(io.Discard, "", 0))
	b.Add(world.SceneObject{ID: "body-star", Kind: "mesh"})
	srv := httptest.NewServer(b)
	defer srv.Close()
	conn := dial(t, srv)

	snap := readOp(t, conn)
	if snap.Op != OpSnapshot || len(snap.Objects) != 1 || snap.Objects[0].ID != "body-star" {
		t.Fatalf("snapshot = %+v", snap)
	}

	wf := world.SceneObject{ID: "target-wireframe", Kind: "wireframe", Color: "#ff3333", Position: world.Vec3{5, 0, 0}}
	if err := b.Add(wf); err != nil {
		t.Fatal(err)
	}
	wf.Color = "#44ff44"
	b.Update(wf)
	b.Remove("target-wireframe")

	add := readOp(t, conn)
	if add.Op != OpAdd || add.Object == nil || add.Object.Position != wf.Position {
		t.Errorf("add = %+v", add)
	}
	upd := readOp(t, conn)
	if upd.Op != OpUpdate || upd.Object.Color != "#44ff44" {
		t.Errorf("update = %+v", upd)
	}
	rem := readOp(t, conn)
	if rem.Op != OpRemove || rem.ID != "target-wireframe" {
		t.Errorf("remove = %+v", rem)
	}

	// Failed ops are not streamed
	if err := b.Remove("target-wireframe"); err == nil {
		t.Error("remove of missing object succeeded")
	}
}

func TestBridgeAcceptsCamera(t *testing.T) {
	b := NewBridge(nil, log.New(io.Discard, "", 0))
	srv := httptest.NewServer(b)
	defer srv.Close()
	conn := dial(t, srv)
	readOp(t, conn)

	msg := CameraMessage{
		Op:         OpCamera,
		Position:   world.Vec3{0, 10, 50},
		View:       mgl64.Ident4(),
		Projection: mgl64.Perspective(1, 1.5, 0.1, 1000),
		Width:      1280,
		Height:     720,
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cam, ok := b.Camera(); ok {
			if cam.Position != msg.Position || cam.Width != 1280 {
				t.Errorf("camera = %+v", cam)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("camera never arrived")
}

func TestBridgeClose(t *testing.T) {
	b := NewBridge(nil, log.New(io.Discard, "", 0))
	srv := httptest.NewServer(b)
	defer srv.Close()
	conn := dial(t, srv)
	readOp(t, conn)

	b.Close()
	if b.Clients() != 0 {
		t.Errorf("clients = %d", b.Clients())
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection still open")
	}
}

func TestBridgeServiceLifecycle(t *testing.T) {
	idle := NewBridgeService(NewBridge(nil, log.New(io.Discard, "", 0)))
	if err := idle.Init(""); err != nil {
		t.Fatal(err)
	}
	if err := idle.Start(); err != nil {
		t.Fatal(err)
	}
	if err := idle.Stop(); err != nil {
		t.Errorf("idle stop: %v", err)
	}

	svc := NewBridgeService(NewBridge(nil, log.New(io.Discard, "", 0)))
	_ = svc.Init("127.0.0.1:0")
	if svc.Addr() != "127.0.0.1:0" {
		t.Fatalf("addr = %q", svc.Addr())
	}
	if err := svc.Start(); err != nil {
		t.Fatal(err)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("stop: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}
