/*
main.go - Application entry point

PURPOSE:
  Starts the office-rotation tool. Two subcommands share one binary:

  serve     HTTP host: upload the three files, download repartos.zip
  generate  One run from files on disk, archive written next to them

CONFIGURATION:
  -c/--config  optional YAML or JSON file; REPARTO_* environment
               variables override it (REPARTO_SERVER__PORT=9090)

EXAMPLES:
  # Serve on the configured port
  ./reparto serve -c config.yaml

  # One-off run with the US federal holidays merged in
  ./reparto generate --config-csv config.csv --holidays-csv festivos.csv \
      --codes codigos.xlsx --holiday-preset us

SEE ALSO:
  - serve.go: Server startup and graceful shutdown
  - generate.go: Offline run
  - config/config.go: Settings
*/
package main

import (
	"os"

	"github.com/warp/reparto/logger"
)

func main() {
	if err := Execute(); err != nil {
		logger.New("main").Errorf("%v", err)
		os.Exit(1)
	}
}
