package domain

// BatchRow is one parsed line of a batch upload. Index counts data rows
// from 1; Err is set when the row could not be turned into a scenario.
type BatchRow struct {
	Index    int
	Scenario ScenarioInput
	Err      error
}
