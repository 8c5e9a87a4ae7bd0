package utils

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// LogInfo example:
//
// LogInfo("converted %s", name)
//
func LogInfo(msg string, vars ...interface{}) {
	_, file, line, _ := runtime.Caller(1)
	fileAsPaths := strings.Split(file, "/")
	log.Printf(strings.Join([]string{"[INFO]", fmt.Sprintf("[%s:%d]", fileAsPaths[len(fileAsPaths)-1], line), msg}, " "), vars...)
}

// LogFatal example:
//
// LogFatal(errors.New("output path must be writable"))
//
func LogFatal(err error) {
	pc, fn, line, _ := runtime.Caller(1)
	// Include function name if debugging
	if debug {
		log.Fatalf("[FATAL] %s [%s:%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line)
	} else {
		log.Fatalf("[FATAL] %s [%s:%d]", err, fn, line)
	}
}

// LogError example:
//
// LogError(fmt.Errorf("cannot read %s", path))
//
func LogError(err error) {
	pc, fn, line, _ := runtime.Caller(1)
	// Include function name if debugging
	if debug {
		log.Printf("[ERROR] [%s:%s:%d] %s", runtime.FuncForPC(pc).Name(), fn, line, err)
	} else {
		log.Printf("[ERROR] [%s:%d] %s", fn, line, err)
	}
}
