package amqp

import (
	"encoding/json"
	"fmt"

	"github.com/hangraph/hangraph/core"
)

// eventMessage is the JSON wire shape of an ingestion event. Field names
// follow the producing clients: ssaid is the device-scoped user ID,
// inputText the user's query, outputText the generated response.
type eventMessage struct {
	SSAID      string `json:"ssaid"`
	InputText  string `json:"inputText"`
	OutputText string `json:"outputText"`
}

func encodeEvent(event *core.Event) ([]byte, error) {
	if err := core.ValidateEvent(event); err != nil {
		return nil, err
	}
	body, err := json.Marshal(eventMessage{
		SSAID:      event.UserID,
		InputText:  event.QueryText,
		OutputText: event.ResponseText,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return body, nil
}

func decodeEvent(body []byte) (*core.Event, error) {
	var message eventMessage
	if err := json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("%w: malformed event payload: %v", core.ErrInvalidEvent, err)
	}
	event := &core.Event{
		UserID:       message.SSAID,
		QueryText:    message.InputText,
		ResponseText: message.OutputText,
	}
	if err := core.ValidateEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}
