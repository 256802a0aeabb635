package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	evts := events.New()

	id1, ch1 := evts.Subscribe()
	id2, ch2 := evts.Subscribe()
	require.NotEqual(t, id1, id2)
	require.Equal(t, 2, evts.Count())

	evts.Publish("state: AcceptBlock")
	require.Equal(t, "state: AcceptBlock", <-ch1)
	require.Equal(t, "state: AcceptBlock", <-ch2)

	require.NoError(t, evts.Unsubscribe(id1))
	require.Error(t, evts.Unsubscribe(id1))

	_, open := <-ch1
	require.False(t, open, "unsubscribe should close the channel")

	evts.Shutdown()
	require.Equal(t, 0, evts.Count())

	_, open = <-ch2
	require.False(t, open, "shutdown should close every channel")
}

func TestPublishDoesNotBlock(t *testing.T) {
	evts := events.New()
	_, ch := evts.Subscribe()

	for i := 0; i < 1000; i++ {
		evts.Publish("event")
	}

	require.Equal(t, 100, len(ch))
}
