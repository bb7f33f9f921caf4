package commands

const (
	formatJSON  = "json"
	formatTable = "table"
)
