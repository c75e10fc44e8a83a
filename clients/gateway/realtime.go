package gateway

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// SessionEvent — тип события сессии, доставляемого Gateway асинхронно
type SessionEvent string

const (
	EventSignedIn  SessionEvent = "SIGNED_IN"
	EventSignedOut SessionEvent = "SIGNED_OUT"
)

// SessionCallback вызывается при каждом событии сессии
type SessionCallback func(event SessionEvent)

// Subscription — подписка на события сессии; обязательно снимается при teardown
type Subscription struct {
	conn *websocket.Conn
	done chan struct{}
}

// realtimeMessage — кадр websocket-канала
type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// OnSessionChange подключается к realtime-каналу и доставляет события
// входа/выхода. События идут параллельно с ручной проверкой сессии,
// поэтому обработчик обязан быть идемпотентным.
func (c *Client) OnSessionChange(session *Session, callback SessionCallback) (*Subscription, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) +
		"/realtime/v1/websocket?apikey=" + c.anonKey + "&vsn=1.0.0"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к realtime: %w", err)
	}

	topic := "realtime:auth:" + session.UserID
	join := realtimeMessage{
		Topic:   topic,
		Event:   "phx_join",
		Payload: json.RawMessage(fmt.Sprintf(`{"access_token":%q}`, session.AccessToken)),
		Ref:     "1",
	}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка подписки на канал: %w", err)
	}

	sub := &Subscription{
		conn: conn,
		done: make(chan struct{}),
	}

	// Поток чтения событий
	go func() {
		for {
			var msg realtimeMessage
			if err := conn.ReadJSON(&msg); err != nil {
				select {
				case <-sub.done:
					// Подписка снята, тишина в логах
				default:
					log.Printf("Ошибка чтения realtime-канала: %v", err)
				}
				return
			}

			switch SessionEvent(msg.Event) {
			case EventSignedIn:
				callback(EventSignedIn)
			case EventSignedOut:
				callback(EventSignedOut)
			}
		}
	}()

	// Heartbeat, иначе сервер закрывает соединение
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		ref := 2
		for {
			select {
			case <-sub.done:
				return
			case <-ticker.C:
				hb := realtimeMessage{
					Topic:   "phoenix",
					Event:   "heartbeat",
					Payload: json.RawMessage(`{}`),
					Ref:     fmt.Sprintf("%d", ref),
				}
				ref++
				if err := conn.WriteJSON(hb); err != nil {
					log.Printf("Ошибка heartbeat realtime-канала: %v", err)
					return
				}
			}
		}
	}()

	return sub, nil
}

// Unsubscribe снимает подписку и закрывает соединение
func (s *Subscription) Unsubscribe() {
	select {
	case <-s.done:
		return
	default:
	}
	close(s.done)
	s.conn.Close()
}
