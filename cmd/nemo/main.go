// Command nemo runs NeMo spiking-network scenarios from the command line.
package main

import (
	"os"

	"github.com/SynapticNetworks/nemo/simerr"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("nemo failed")
		os.Exit(simerr.ExitCode(err))
	}
}
