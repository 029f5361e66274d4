package synth

import (
	"log"
	"os"
)

var errLogger = log.New(os.Stderr, "[ FAIL ]: ", log.Lshortfile)
var warnLogger = log.New(os.Stderr, "[ WARN ]: ", log.Lshortfile)
