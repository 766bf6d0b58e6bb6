package enum

import (
	"encoding/json"
	"fmt"
)

// SyncState tracks where a sale is in its local-to-remote lifecycle.
type SyncState int

const (
	// SyncStateLocalOnly is a sale recorded without a session; it is never queued.
	SyncStateLocalOnly SyncState = 0
	// SyncStatePendingRemote is a sale waiting in the pending queue.
	SyncStatePendingRemote SyncState = 1
	// SyncStateSynced is a sale confirmed by the remote store.
	SyncStateSynced SyncState = 2
	// SyncStateRejected is a sale moved to the dead-letter list.
	SyncStateRejected SyncState = 3
)

var syncStateNames = [...]string{"local_only", "pending_remote", "synced", "rejected"}

func (s SyncState) String() string {
	if s < 0 || int(s) >= len(syncStateNames) {
		return fmt.Sprintf("SyncState(%d)", int(s))
	}
	return syncStateNames[s]
}

func (s SyncState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SyncState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SyncState(i)
		return nil
	}
	for i, name := range syncStateNames {
		if name == str {
			*s = SyncState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown sync state %q", str)
}
