package store

import "github.com/google/uuid"

const blockIDPrefix = "blk"

// newBlockID returns blk-<uuid>. The prefix keeps ids recognizable in CLI output.
func newBlockID() string {
	return blockIDPrefix + "-" + uuid.NewString()
}
