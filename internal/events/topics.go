package events

import "fmt"

func TopicResolution(prefix, intent string) string {
	return fmt.Sprintf("%s/chat/resolution/%s", prefix, intent)
}

func TopicResolutionAll(prefix string) string {
	return fmt.Sprintf("%s/chat/resolution/+", prefix)
}
