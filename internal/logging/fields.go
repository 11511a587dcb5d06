package logging

import "github.com/sirupsen/logrus"

// OpFields tags a storage operation log line.
func OpFields(op, mode, path string) logrus.Fields {
	return logrus.Fields{
		"op":   op,
		"mode": mode,
		"path": path,
	}
}
