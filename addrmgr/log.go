// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import gospellog "github.com/bfix/gospel/logger"

// logCategory tags every message this package emits.
const logCategory = "addrmgr"

// Logger is the logging collaborator consumed throughout this package. All
// calls are optional; NopLogger is the null logger tolerated by every call
// site in this package when no logger has been configured.
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything. It is the default when no Logger option is
// supplied.
type NopLogger struct{}

func (NopLogger) Tracef(string, ...interface{}) {}
func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}

// GospelLogger adapts github.com/bfix/gospel/logger's package-level leveled
// functions to the Logger interface. gospel has no distinct "trace" level
// below its debug level, so Tracef is folded into DBG.
type GospelLogger struct{}

func (GospelLogger) Tracef(format string, args ...interface{}) {
	gospellog.Printf(gospellog.DBG, "["+logCategory+"] "+format, args...)
}

func (GospelLogger) Debugf(format string, args ...interface{}) {
	gospellog.Printf(gospellog.DBG, "["+logCategory+"] "+format, args...)
}

func (GospelLogger) Infof(format string, args ...interface{}) {
	gospellog.Printf(gospellog.INFO, "["+logCategory+"] "+format, args...)
}

func (GospelLogger) Warnf(format string, args ...interface{}) {
	gospellog.Printf(gospellog.WARN, "["+logCategory+"] "+format, args...)
}

func (GospelLogger) Errorf(format string, args ...interface{}) {
	gospellog.Printf(gospellog.ERROR, "["+logCategory+"] "+format, args...)
}
