// Command binlogcdc is a small operator tool for exercising this
// module's Decoder from a terminal: point it at a master, optionally
// give it a starting file/position or GTID set, and it prints every
// decoded event (and row, for row events) to stdout as it streams.
package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	binlog "github.com/mysqlbinlog/cdcstream"
)

var (
	app = kingpin.New("binlogcdc", "Stream and inspect MySQL binlog replication events.")

	address  = app.Flag("address", "host:port of the master.").Default("127.0.0.1:3306").String()
	user     = app.Flag("user", "Replication username.").Default("root").String()
	password = app.Flag("password", "Replication password.").String()
	serverID = app.Flag("server-id", "Fake server id to register as.").Default("1000").Uint32()
	ssl      = app.Flag("ssl", "Upgrade the connection to TLS before authenticating.").Bool()
	verbose  = app.Flag("verbose", "Enable debug logging.").Bool()

	streamCmd = app.Command("stream", "Stream events starting from a binlog file:position.")
	streamLoc = streamCmd.Arg("location", "binlog.000001:4, or binlog.000001 for offset 4.").Required().String()

	tailGTIDCmd = app.Command("tail-gtid", "Stream events starting from a GTID set.")
	tailGTIDSet = tailGTIDCmd.Arg("gtid-set", "e.g. 3E11FA47-71CA-11E1-9E33-C80AA9429562:1-5.").Required().String()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	dec, err := connect()
	if err != nil {
		kingpin.Fatalf("%v", err)
	}
	defer dec.Close()

	switch cmd {
	case streamCmd.FullCommand():
		file, pos := parseLocation(*streamLoc)
		if err := dec.Seek(*serverID, file, pos); err != nil {
			kingpin.Fatalf("seek: %v", err)
		}
	case tailGTIDCmd.FullCommand():
		if err := dec.SeekGTID(*serverID, *tailGTIDSet); err != nil {
			kingpin.Fatalf("seek gtid: %v", err)
		}
	}

	if err := printEvents(dec); err != nil {
		kingpin.Fatalf("%v", err)
	}
}

func connect() (*binlog.Decoder, error) {
	dec, err := binlog.Dial("tcp", *address)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	if *ssl {
		if !dec.IsSSLSupported() {
			return nil, errors.New("server does not advertise SSL support")
		}
		if err := dec.UpgradeSSL(&tls.Config{InsecureSkipVerify: true}); err != nil {
			return nil, errors.Wrap(err, "upgrade ssl")
		}
	}
	if err := dec.Authenticate(*user, *password); err != nil {
		return nil, errors.Wrap(err, "authenticate")
	}

	files, err := dec.ListFiles()
	if err != nil {
		return nil, errors.Wrap(err, "list files")
	}
	fmt.Fprintln(os.Stderr, "binary logs:", files)

	file, pos, err := dec.MasterStatus()
	if err != nil {
		return nil, errors.Wrap(err, "master status")
	}
	fmt.Fprintf(os.Stderr, "master status: %s:%d\n", file, pos)

	return dec, nil
}

func printEvents(dec *binlog.Decoder) error {
	for {
		ev, err := dec.NextEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		fmt.Printf("--- %s @ %s:%d\n%#v\n", ev.Header.EventType, ev.Header.LogFile, ev.Header.NextPos, ev.Data)

		if _, ok := ev.Data.(binlog.RowsEvent); ok {
			printRows(dec)
		}
	}
}

func printRows(dec *binlog.Decoder) {
	for {
		after, before, err := dec.NextRow()
		if err != nil {
			if err == io.EOF {
				return
			}
			kingpin.Fatalf("next row: %v", err)
		}
		if before != nil {
			fmt.Printf("    before: %v\n", before)
		}
		fmt.Printf("    after:  %v\n", after)
	}
}

func parseLocation(arg string) (file string, pos uint32) {
	colon := strings.IndexByte(arg, ':')
	if colon == -1 {
		return arg, 4
	}
	file = arg[:colon]
	off, err := strconv.Atoi(arg[colon+1:])
	if err != nil {
		kingpin.Fatalf("invalid position in %q: %v", arg, err)
	}
	return file, uint32(off)
}
