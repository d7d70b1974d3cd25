package ntfy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxTopicLength mirrors the server's topic length limit.
const MaxTopicLength = 64

var topicPattern = regexp.MustCompile(`^[-_A-Za-z0-9]{1,64}$`)

// ValidateTopic enforces ntfy's topic naming rules.
func ValidateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("topic must not be empty")
	}
	if len(topic) > MaxTopicLength {
		return fmt.Errorf("topic %q exceeds %d characters", topic, MaxTopicLength)
	}
	if !topicPattern.MatchString(topic) {
		return fmt.Errorf("topic %q may only contain letters, digits, '-' and '_'", topic)
	}
	return nil
}

// GenerateTopic returns a hard-to-guess topic name. Anyone who knows a topic
// on a public server can read it, so random names act as a shared secret.
func GenerateTopic(prefix string) (string, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "-_")
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	topic := random
	if prefix != "" {
		if len(prefix)+1+len(random) > MaxTopicLength {
			return "", fmt.Errorf("topic prefix %q too long", prefix)
		}
		topic = prefix + "_" + random
	}
	if err := ValidateTopic(topic); err != nil {
		return "", err
	}
	return topic, nil
}
