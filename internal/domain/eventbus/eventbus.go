// Package eventbus carries speech lifecycle events between the playback
// layer and whatever UI layer wants to reflect them (icon state, notices).
package eventbus

import (
	evbus "github.com/asaskevich/EventBus"
)

const (
	EventSpeechSpeak     = "speech.speak"
	EventSpeechCompleted = "speech.completed"
	EventSpeechError     = "speech.error"
)

// SpeechEventData describes one speak request's lifecycle moment. Message
// is only set on error events and never contains credential material.
type SpeechEventData struct {
	Provider string
	Text     string
	Bytes    int
	Message  string
}

var bus = evbus.New()

func Publish(topic string, data SpeechEventData) {
	bus.Publish(topic, data)
}

func Subscribe(topic string, fn interface{}) error {
	return bus.Subscribe(topic, fn)
}

func Unsubscribe(topic string, fn interface{}) error {
	return bus.Unsubscribe(topic, fn)
}
