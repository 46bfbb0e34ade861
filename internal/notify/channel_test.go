package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_PublishReplacesPrevious(t *testing.T) {
	now := time.Now()
	channel := NewChannel(func() time.Time { return now })

	channel.Success("第一則訊息")
	channel.Error("第二則訊息")

	active := channel.Active()
	require.NotNil(t, active)
	assert.Equal(t, "第二則訊息", active.Message)
	assert.Equal(t, KindError, active.Kind)
}

func TestChannel_ExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	channel := NewChannel(func() time.Time { return now })

	channel.Success("訂單成功送出！")
	require.NotNil(t, channel.Active())

	now = now.Add(TTL)
	assert.Nil(t, channel.Active())
}

func TestChannel_ActiveJustBeforeExpiry(t *testing.T) {
	now := time.Now()
	channel := NewChannel(func() time.Time { return now })

	channel.Success("訂單成功送出！")

	now = now.Add(TTL - time.Millisecond)
	assert.NotNil(t, channel.Active())
}

func TestChannel_DismissIsIdempotent(t *testing.T) {
	channel := NewChannel(nil)

	channel.Error("錯誤")
	channel.Dismiss()
	assert.Nil(t, channel.Active())

	channel.Dismiss()
	assert.Nil(t, channel.Active())
}

func TestChannel_ActiveNilWhenNothingPublished(t *testing.T) {
	channel := NewChannel(nil)
	assert.Nil(t, channel.Active())
}
