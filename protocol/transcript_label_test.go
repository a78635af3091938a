package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luxfi/dlcve/pkg/oracle"
	"github.com/luxfi/dlcve/protocol"
)

// Per spec.md §6, the two domain-separation tags MUST NOT be reused across
// variants: "venc-dleqs" is reserved for the one-shot verifiable-encryption
// scheme, and "dlc-dleqs" for every signer-anticipated variant. Threshold
// and Bitwise are both signer-anticipated, so both must bind to "dlc-dleqs";
// only SingleShot may bind to "venc-dleqs".
func TestTranscriptLabelBindsVariantsToDistinctTags(t *testing.T) {
	assert.Equal(t, "venc-dleqs", protocol.TranscriptLabel(&oracle.SingleShot{}))
	assert.Equal(t, "dlc-dleqs", protocol.TranscriptLabel(&oracle.Threshold{}))
	assert.Equal(t, "dlc-dleqs", protocol.TranscriptLabel(&oracle.Bitwise{}))
}
