package main

import (
	"github.com/tanpawarit/Chative-A2A-Customer-Support/cmd"
	_ "github.com/tanpawarit/Chative-A2A-Customer-Support/pkg/logger/autoload"
)

func main() {
	cmd.Execute()
}
