// internal/game/events.go
package game

import "github.com/google/uuid"

// EventType names every server-to-client message. State updates carry the
// full snapshot; everything else is a signal the clients react to with sound
// or UI changes.
type EventType string

const (
	EventStateUpdate EventType = "gameStateUpdate"
	EventAlert       EventType = "alert"

	EventPromptWager      EventType = "promptWager"
	EventPlayMusic        EventType = "playMusic"
	EventStopMusic        EventType = "stopMusic"
	EventDailyDoubleSound EventType = "dailyDoubleSound"

	EventQuestionDisplayed   EventType = "questionDisplayed"
	EventBuzzerSound         EventType = "buzzerSound"
	EventBuzzerActive        EventType = "buzzerActive"
	EventShowJudgeControls   EventType = "showJudgeControls"
	EventHideJudgeControls   EventType = "hideJudgeControls"
	EventHideQuestionDisplay EventType = "hideQuestionDisplay"
	EventCorrectSound        EventType = "correctSound"
	EventWrongSound          EventType = "wrongSound"

	EventFinalSetup            EventType = "finalJeopardySetup"
	EventFinalSound            EventType = "finalJeopardySound"
	EventFinalQuestionRevealed EventType = "finalQuestionRevealed"
	EventWagersLockedIn        EventType = "wagersLockedIn"
	EventFinalAnswerRevealed   EventType = "finalJeopardyAnswerRevealed"
	EventShowFinalResults      EventType = "showFinalResults"
)

// EventUser identifies a player inside an event payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventStanding is one row of a standings payload.
type EventStanding struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
}

// Event is the wire shape for every outbound message. Fields beyond Type are
// populated per event type and omitted otherwise.
type Event struct {
	Type     EventType       `json:"type"`
	Message  string          `json:"message,omitempty"`
	CardKey  string          `json:"cardKey,omitempty"`
	Player   *EventUser      `json:"player,omitempty"`
	Question string          `json:"question,omitempty"`
	Category string          `json:"category,omitempty"`
	Answer   string          `json:"answer,omitempty"`
	Players  []EventStanding `json:"players,omitempty"`
	State    *Snapshot       `json:"state,omitempty"`
}
