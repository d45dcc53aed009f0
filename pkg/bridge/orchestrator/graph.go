package orchestrator

// NodeID names one transaction in the bridge DAG (spec.md §4.7).
type NodeID string

const (
	NodePegInDeposit    NodeID = "PegInDeposit"
	NodePegInRefund     NodeID = "PegInRefund"
	NodePegInConfirm    NodeID = "PegInConfirm"
	NodePreKickoff      NodeID = "PreKickoff"
	NodeKickOff         NodeID = "KickOff"
	NodeTake1           NodeID = "Take1"
	NodeChallenge       NodeID = "Challenge"
	NodeAssertInitial   NodeID = "AssertInitial"
	NodeAssertCommit1   NodeID = "AssertCommit1"
	NodeAssertCommit2   NodeID = "AssertCommit2"
	NodeAssertFinal     NodeID = "AssertFinal"
	NodeTake2           NodeID = "Take2"
	NodeDisprove        NodeID = "Disprove"
)

// Transition is one edge of the DAG-level state machine (spec.md
// §4.7): From confirming, under Condition, enables To. Terminal is
// true for the four mutually-exclusive end states of a bridge
// instance (PegInRefund, Take1, Take2, Disprove).
type Transition struct {
	From      []NodeID
	To        NodeID
	Condition string
	Terminal  bool
}

// Transitions returns the full DAG-level state table of spec.md
// §4.7, for documentation and for tests that assert every NodeID
// appears in the table.
func Transitions() []Transition {
	return []Transition{
		{From: []NodeID{NodePegInDeposit}, To: NodePegInRefund, Condition: "CZ-refund leaf, +2 weeks", Terminal: true},
		{From: []NodeID{NodePegInDeposit}, To: NodePegInConfirm, Condition: "CZ-confirm leaf"},
		{From: []NodeID{NodePreKickoff}, To: NodeKickOff, Condition: ""},
		{From: []NodeID{NodePegInConfirm, NodeKickOff}, To: NodeTake1, Condition: "timeout on ConnectorA's take-1 leaf", Terminal: true},
		{From: []NodeID{NodeKickOff}, To: NodeChallenge, Condition: "ConnectorA challenge leaf"},
		{From: []NodeID{NodeChallenge}, To: NodeAssertInitial, Condition: ""},
		{From: []NodeID{NodeAssertInitial}, To: NodeAssertCommit1, Condition: ""},
		{From: []NodeID{NodeAssertInitial}, To: NodeAssertCommit2, Condition: ""},
		{From: []NodeID{NodeAssertCommit1, NodeAssertCommit2}, To: NodeAssertFinal, Condition: ""},
		{From: []NodeID{NodeAssertFinal}, To: NodeTake2, Condition: "CSV on Connector4 and Connector5", Terminal: true},
		{From: []NodeID{NodeAssertFinal}, To: NodeDisprove, Condition: "ConnectorC disprove leaf, before CSV", Terminal: true},
	}
}
