package gomega

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type logMatcher struct {
	level   logrus.Level
	message string
}

func (m logMatcher) Match(actual interface{}) (success bool, err error) {
	hook, ok := actual.(*test.Hook)
	if !ok {
		return false, fmt.Errorf("expected *test.Hook, got %T", actual)
	}

	for _, entry := range hook.AllEntries() {
		if entry.Level == m.level && entry.Message == m.message {
			return true, nil
		}
	}

	return false, nil
}

func (m logMatcher) FailureMessage(actual interface{}) (message string) {
	return fmt.Sprintf("Expected log entry [%s] %q in %v", m.level, m.message, messages(actual))
}

func (m logMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	return fmt.Sprintf("Expected no log entry [%s] %q in %v", m.level, m.message, messages(actual))
}

func messages(actual interface{}) []string {
	hook, ok := actual.(*test.Hook)
	if !ok {
		return nil
	}
	var result []string
	for _, entry := range hook.AllEntries() {
		result = append(result, fmt.Sprintf("[%s] %s", entry.Level, entry.Message))
	}

	return result
}

// HaveLogged matches a logrus test hook that captured message at level.
func HaveLogged(level logrus.Level, message string) logMatcher {
	return logMatcher{level: level, message: message}
}
