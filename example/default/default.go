package main

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sentinel-ac/sentinel"
	"github.com/sentinel-ac/sentinel/action"
	"github.com/sentinel-ac/sentinel/settings"
	"github.com/sentinel-ac/sentinel/weapon"
	"github.com/sirupsen/logrus"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// The following program implements a websocket ingest in front of the engine:
// each connection streams claimed actions as JSON frames and receives the
// validation verdicts back. A real deployment replaces this with the game
// server's own packet hooks.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	conf, err := settings.Read("sentinel.toml")
	if err != nil {
		logger.Fatalf("unable to load settings: %v", err)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))

		mgr := statsview.New()
		go mgr.Start()
	}

	engine := sentinel.New(logger, conf, weapon.DefaultRegistry())
	engine.StartTicking(time.Minute)
	defer engine.Close()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Errorf("websocket upgrade failed: %v", err)
			return
		}
		go handleConn(conn, engine, logger, r.URL.Query().Get("player"))
	})

	addr := os.Getenv("SENTINEL_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	logger.Infof("Sentinel is now listening on %v!", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatalf("listen failed: %v", err)
	}
}

// actionFrame is the wire form of one claimed action.
type actionFrame struct {
	Type            string     `json:"type"`
	Position        *[3]float64 `json:"position,omitempty"`
	Velocity        *[3]float64 `json:"velocity,omitempty"`
	Rotation        *[3]float64 `json:"rotation,omitempty"`
	ClientTimestamp int64      `json:"client_timestamp"`
	Sequence        uint32     `json:"sequence"`
	PingMs          float64    `json:"ping_ms"`
	PacketLoss      float64    `json:"packet_loss"`

	Weapon *struct {
		ID         string     `json:"id"`
		Ammo       int32      `json:"ammo"`
		FireOrigin [3]float64 `json:"fire_origin"`
		Accuracy   float64    `json:"accuracy"`
	} `json:"weapon,omitempty"`
}

// resultFrame is the verdict sent back for each action.
type resultFrame struct {
	Valid      bool    `json:"valid"`
	Violation  string  `json:"violation"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
	Evidence   float64 `json:"evidence"`
	TookMicros int64   `json:"took_micros"`
}

var actionTypes = map[string]action.Type{
	"move": action.TypeMove, "jump": action.TypeJump, "crouch": action.TypeCrouch,
	"sprint": action.TypeSprint, "fire": action.TypeFireWeapon, "reload": action.TypeReloadWeapon,
	"switch": action.TypeSwitchWeapon, "aim": action.TypeAim, "interact": action.TypeInteract,
	"chat": action.TypeChat, "use_item": action.TypeUseItem,
}

func handleConn(conn *websocket.Conn, engine *sentinel.Sentinel, logger *logrus.Logger, playerID string) {
	if playerID == "" {
		playerID = uuid.New().String()
	}
	engine.CreatePlayer(playerID)
	defer func() {
		engine.RemovePlayer(playerID)
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame actionFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			logger.Debugf("%s sent an undecodable frame: %v", playerID, err)
			continue
		}

		t, ok := actionTypes[frame.Type]
		if !ok {
			logger.Debugf("%s sent an unknown action type %q", playerID, frame.Type)
			continue
		}

		res := engine.Validate(playerID, &action.Action{
			PlayerID:        playerID,
			Type:            t,
			Position:        vec(frame.Position),
			Velocity:        vec(frame.Velocity),
			Rotation:        vec(frame.Rotation),
			Timestamp:       time.Now(),
			ClientTimestamp: frame.ClientTimestamp,
			Sequence:        frame.Sequence,
			Ping:            time.Duration(frame.PingMs * float64(time.Millisecond)),
			PacketLoss:      frame.PacketLoss,
			Weapon:          weaponData(frame),
		})

		out, _ := json.Marshal(resultFrame{
			Valid:      res.Valid,
			Violation:  res.Violation.String(),
			Confidence: res.Confidence,
			Reason:     res.Reason,
			Evidence:   res.Evidence,
			TookMicros: res.ProcessingTime.Microseconds(),
		})
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			return
		}
	}
}

func vec(v *[3]float64) *mgl64.Vec3 {
	if v == nil {
		return nil
	}
	out := mgl64.Vec3{v[0], v[1], v[2]}
	return &out
}

func weaponData(frame actionFrame) *action.WeaponData {
	if frame.Weapon == nil {
		return nil
	}
	w := frame.Weapon
	return &action.WeaponData{
		WeaponID:   w.ID,
		Ammo:       w.Ammo,
		FireOrigin: mgl64.Vec3{w.FireOrigin[0], w.FireOrigin[1], w.FireOrigin[2]},
		Accuracy:   w.Accuracy,
	}
}
