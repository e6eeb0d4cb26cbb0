package main

import (
	"github.com/ktran04/getgtclass/cmd/getgtclass/commands"
	"github.com/ktran04/getgtclass/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
