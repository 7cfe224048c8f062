package zkerrors

import (
	"testing"

	"github.com/jeffbean/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
)

func TestToMessage(t *testing.T) {
	assert.Equal(t, "", ToMessage(ErrOk))
	assert.Equal(t, "node does not exist", ToMessage(errNoNode))
	assert.Equal(t, "unknown error", ToMessage(zk.ErrCode(9999)))
}
