// Command xcpupdate drives a single firmware update over XCP against a CAN
// bus, grounded on cmd/canopen/main.go and cmd/sdo_client/main.go (stdlib
// flag, logrus debug level, bus construction then Connect), retargeted from
// CANopen node bring-up to one update.Orchestrator.Run call.
package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/feaser/libmicroblt/pkg/can"
	_ "github.com/feaser/libmicroblt/pkg/can/socketcan"
	"github.com/feaser/libmicroblt/pkg/srec"
	"github.com/feaser/libmicroblt/pkg/update"
	"github.com/feaser/libmicroblt/pkg/xcp"
)

func main() {
	log.SetLevel(log.InfoLevel)

	interfaceName := flag.String("interface", "virtual", "CAN interface type: socketcan, virtual")
	channel := flag.String("i", "vcan0", "CAN channel, e.g. can0, vcan0")
	firmwarePath := flag.String("f", "", "S-record firmware file to program")
	connectMode := flag.Uint("n", 0, "XCP CONNECT mode byte (slave-specific, e.g. node id)")
	configPath := flag.String("c", "", "optional .ini file overriding the XCP timeout/retry defaults")
	txID := flag.Uint("tx", 0x667, "CAN ID used for master-to-slave frames")
	rxID := flag.Uint("rx", 0x7e1, "CAN ID used for slave-to-master frames")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *firmwarePath == "" {
		log.Error("[MAIN] -f firmware file is required")
		os.Exit(2)
	}

	cfg, err := update.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("[MAIN] failed to load config: %v", err)
	}
	cfg.ConnectMode = uint8(*connectMode)

	bus, err := can.NewBus(*interfaceName, *channel, 500000)
	if err != nil {
		log.Fatalf("[MAIN] failed to open CAN interface %q on %q: %v", *interfaceName, *channel, err)
	}
	if err := bus.Connect(); err != nil {
		log.Fatalf("[MAIN] failed to connect CAN bus: %v", err)
	}
	defer bus.Disconnect()

	transport, err := can.NewFrameTransport(bus, uint32(*txID), uint32(*rxID), nil)
	if err != nil {
		log.Fatalf("[MAIN] failed to create XCP transport: %v", err)
	}

	reader, err := srec.OpenWithChunkMax(*firmwarePath, cfg.ChunkMax)
	if err != nil {
		log.Fatalf("[MAIN] failed to open firmware %q: %v", *firmwarePath, err)
	}

	client := xcp.NewClient(transport, cfg.Settings())
	orchestrator := update.NewOrchestrator(reader, client)

	log.Infof("[MAIN] starting update: firmware=%s interface=%s/%s", *firmwarePath, *interfaceName, *channel)
	if err := orchestrator.Run(); err != nil {
		log.Fatalf("[MAIN] update failed: %v", err)
	}
	log.Infof("[MAIN] update finished successfully")
}
