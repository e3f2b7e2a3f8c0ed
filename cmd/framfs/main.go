// Command framfs inspects and manipulates FRAM image files: dumps
// pulled off a device over BLE, or images being prepared on the host.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mit-pdos/go-journal/util"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/framtag/framfs/fram"
	"github.com/framtag/framfs/framfs"
	"github.com/framtag/framfs/record"
)

type config struct {
	Image string `yaml:"image"`
	Size  uint32 `yaml:"size"`
	Debug uint64 `yaml:"debug"`
}

func loadConfig(ctx *cli.Context) (config, error) {
	c := config{Size: fram.DefaultSize}
	if path := ctx.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if ctx.IsSet("image") || c.Image == "" {
		c.Image = ctx.String("image")
	}
	if ctx.IsSet("size") {
		c.Size = uint32(ctx.Uint64("size"))
	}
	if ctx.IsSet("debug") {
		c.Debug = ctx.Uint64("debug")
	}
	if c.Image == "" {
		return c, fmt.Errorf("no image file given (flag --image or config)")
	}
	return c, nil
}

func withFs(format bool, action func(*framfs.Fs, *cli.Context) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		c, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		util.Debug = c.Debug
		store, err := fram.NewFileStore(c.Image, c.Size)
		if err != nil {
			return err
		}
		defer store.Close()
		var fs *framfs.Fs
		if format {
			fs, err = framfs.Format(store)
		} else {
			fs, err = framfs.Init(store)
		}
		if err != nil {
			return err
		}
		return action(fs, ctx)
	}
}

func flagString(e framfs.Entry) string {
	s := ""
	if e.Flags&framfs.FlagValid != 0 {
		s += "V"
	}
	if e.Flags&framfs.FlagActive != 0 {
		s += "A"
	}
	if e.Flags&framfs.FlagSealed != 0 {
		s += "S"
	}
	return s
}

func main() {
	app := cli.App{
		Name:  "framfs",
		Usage: "inspect and manage framfs image files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "image file path"},
			&cli.Uint64Flag{Name: "size", Usage: "image size in bytes", Value: uint64(fram.DefaultSize)},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.Uint64Flag{Name: "debug", Usage: "debug level (higher is more verbose)"},
		},
		Commands: []*cli.Command{{
			Name:  "mkfs",
			Usage: "format the image with an empty file system",
			Action: withFs(true, func(fs *framfs.Fs, ctx *cli.Context) error {
				hdr, err := fs.Stats()
				if err != nil {
					return err
				}
				fmt.Printf("formatted: data starts at %#x\n", hdr.NextDataAddr)
				return nil
			}),
		}, {
			Name:  "ls",
			Usage: "list files",
			Action: withFs(false, func(fs *framfs.Fs, ctx *cli.Context) error {
				entries, err := fs.ListEntries()
				if err != nil {
					return err
				}
				tbl := table.New("name", "start", "length", "flags", "type")
				for _, e := range entries {
					tbl.AddRow(e.Filename, fmt.Sprintf("%#x", e.StartAddr),
						e.Length, flagString(e), e.FileType)
				}
				tbl.Print()
				return nil
			}),
		}, {
			Name:  "stat",
			Usage: "print file system header",
			Action: withFs(false, func(fs *framfs.Fs, ctx *cli.Context) error {
				hdr, err := fs.Stats()
				if err != nil {
					return err
				}
				fmt.Printf("magic:      %#x (version %d)\n", hdr.Magic, hdr.Version)
				fmt.Printf("files:      %d/%d\n", hdr.FileCount, framfs.MaxFiles)
				fmt.Printf("next addr:  %#x\n", hdr.NextDataAddr)
				fmt.Printf("data bytes: %d\n", hdr.TotalDataSize)
				count, usage, err := fs.MacStats()
				if err != nil {
					return err
				}
				fmt.Printf("MAC table:  %d/%d entries, %d uses\n",
					count, framfs.MaxMacEntries, usage)
				return nil
			}),
		}, {
			Name:      "cat",
			Usage:     "hex-dump a file's contents",
			ArgsUsage: "FILENAME",
			Action: withFs(false, func(fs *framfs.Fs, ctx *cli.Context) error {
				name := ctx.Args().First()
				if name == "" {
					return fmt.Errorf("usage: cat FILENAME")
				}
				size, err := fs.FileSize(name)
				if err != nil {
					return err
				}
				if size == 0 {
					return nil
				}
				buf := make([]byte, size)
				n, err := fs.Read(name, 0, buf)
				if err != nil {
					return err
				}
				fmt.Print(hex.Dump(buf[:n]))
				return nil
			}),
		}, {
			Name:      "records",
			Usage:     "decode and list a file's records",
			ArgsUsage: "FILENAME",
			Action: withFs(false, func(fs *framfs.Fs, ctx *cli.Context) error {
				name := ctx.Args().First()
				if name == "" {
					return fmt.Errorf("usage: records FILENAME")
				}
				size, err := fs.FileSize(name)
				if err != nil {
					return err
				}
				buf := make([]byte, size)
				if size > 0 {
					if _, err := fs.Read(name, 0, buf); err != nil {
						return err
					}
				}
				return printRecords(buf)
			}),
		}, {
			Name:  "mac",
			Usage: "list the MAC deduplication table",
			Action: withFs(false, func(fs *framfs.Fs, ctx *cli.Context) error {
				entries, err := fs.MacEntries()
				if err != nil {
					return err
				}
				tbl := table.New("index", "id", "uses")
				for i, e := range entries {
					tbl.AddRow(i, hex.EncodeToString(e.ID[:]), e.UsageCount)
				}
				tbl.Print()
				return nil
			}),
		}},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printRecords(buf []byte) error {
	tbl := table.New("offset", "minute", "type", "detail")
	for off := 0; off < len(buf); {
		sz, err := record.Size(buf[off:])
		if err != nil {
			return fmt.Errorf("offset %d: %w", off, err)
		}
		minute, _ := record.PeekMinute(buf[off:])
		t := buf[off+2]
		detail := ""
		switch {
		case t >= record.TypeDeviceMin && t <= record.TypeDeviceMax:
			dev, _, err := record.DecodeDevice(buf[off:])
			if err != nil {
				return fmt.Errorf("offset %d: %w", off, err)
			}
			detail = fmt.Sprintf("%d devices, motion %d", t, dev.MotionCount)
		case t == record.TypeBattery:
			b, err := record.DecodeBattery(buf[off:])
			if err != nil {
				return fmt.Errorf("offset %d: %w", off, err)
			}
			detail = fmt.Sprintf("level %d%%", b.Level)
		case t == record.TypeTemperature:
			tr, err := record.DecodeTemperature(buf[off:])
			if err != nil {
				return fmt.Errorf("offset %d: %w", off, err)
			}
			detail = fmt.Sprintf("%d C", tr.Degrees)
		}
		tbl.AddRow(off, minute, fmt.Sprintf("%#02x", t), detail)
		off += sz
	}
	tbl.Print()
	return nil
}
