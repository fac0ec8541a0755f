package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OnFormatKey_ShouldPrefixUserAndOption(t *testing.T) {
	assert.Equal(t, "finances-bots:42:summary", formatKey(42, "summary"))
}
