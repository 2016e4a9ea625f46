// Command rv32 assembles and runs RV32I assembly programs: direct
// execution, an interactive CLI/TUI step-debugger, or an HTTP+WebSocket
// inspection server over one or more machine sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/rv32i/emulator/api"
	"github.com/rv32i/emulator/assembler"
	"github.com/rv32i/emulator/assertions"
	"github.com/rv32i/emulator/config"
	"github.com/rv32i/emulator/debugger"
	"github.com/rv32i/emulator/loader"
	"github.com/rv32i/emulator/mcu"
	"github.com/rv32i/emulator/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode (CLI)")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")

		memSize    = flag.Uint("mem", 1<<20, "Memory size in bytes")
		entryLabel = flag.String("entry", loader.DefaultEntryLabel, "Entry point label")
		maxCycles  = flag.Uint64("max-cycles", 1_000_000, "Maximum cycles before forced stop")
		stopPC     = flag.String("stop-pc", "", "Stop execution when PC reaches this address (hex or decimal)")

		assertionsFile = flag.String("assertions", "", "Check final state against this assertion file and exit non-zero on failure")
		verboseMode    = flag.Bool("verbose", false, "Verbose output")
		fsRoot         = flag.String("fsroot", "", "Restrict file operations to this directory (default: current directory)")

		enableTrace = flag.Bool("trace", false, "Enable per-instruction execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32 %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}
	asmFile := flag.Arg(0)
	if _, err := os.Stat(asmFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", asmFile)
		os.Exit(1)
	}

	filesystemRoot := *fsRoot
	if filesystemRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting current directory: %v\n", err)
			os.Exit(1)
		}
		filesystemRoot = cwd
	}
	absRoot, err := filepath.Abs(filesystemRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving filesystem root path: %v\n", err)
		os.Exit(1)
	}

	machine, err := mcu.New(int(*memSize))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating machine: %v\n", err)
		os.Exit(1)
	}

	relPath, err := filepath.Rel(absRoot, mustAbs(asmFile))
	if err != nil {
		relPath = asmFile
	}

	if *verboseMode {
		fmt.Printf("Loading and assembling: %s\n", asmFile)
		fmt.Printf("Filesystem root: %s\n", absRoot)
	}

	entryAddr, err := loader.LoadSource(relPath, absRoot, machine.Mem, *entryLabel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}
	machine.PC = entryAddr

	symbols, sourceMap := buildSymbolsAndSourceMap(mustAbs(asmFile))

	if *verboseMode {
		fmt.Printf("Entry point: 0x%08X\n", entryAddr)
		fmt.Printf("Symbols: %d labels defined\n", len(symbols))
	}

	var stopAddr *uint32
	if *stopPC != "" {
		addr, ok := parseAddress(*stopPC)
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid -stop-pc address: %s\n", *stopPC)
			os.Exit(1)
		}
		stopAddr = &addr
	}

	if *debugMode || *tuiMode {
		dbg := debugger.NewDebugger(machine)
		dbg.LoadSymbols(symbols)
		dbg.LoadSourceMap(sourceMap)

		if *tuiMode {
			if err := debugger.RunTUI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Println("rv32 debugger - type 'help' for commands")
			fmt.Printf("Program loaded: %s\n", asmFile)
			fmt.Println()

			if err := debugger.RunCLI(dbg); err != nil {
				fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	var tr *execTrace
	if *enableTrace {
		tracePath := *traceFile
		if tracePath == "" {
			tracePath = filepath.Join(config.GetLogPath(), "trace.log")
		}
		f, err := os.Create(tracePath) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close trace file: %v\n", err)
			}
		}()
		tr = newExecTrace(f, machine.RF)
		if *verboseMode {
			fmt.Printf("Execution trace enabled: %s\n", tracePath)
		}
	}

	if *verboseMode {
		fmt.Println("\nStarting execution...")
		fmt.Println("----------------------------------------")
	}

	var cycles uint64
	var runErr error
runLoop:
	for {
		if cycles >= *maxCycles {
			if *verboseMode {
				fmt.Println("Stopped: max-cycles reached")
			}
			break runLoop
		}
		if stopAddr != nil && machine.PC == *stopAddr {
			if *verboseMode {
				fmt.Println("Stopped: stop-pc reached")
			}
			break runLoop
		}

		if err := vm.Step(&machine.PC, machine.Mem, machine.RF); err != nil {
			runErr = err
			break runLoop
		}
		cycles++
		if tr != nil {
			tr.record(machine.PC)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "\nRuntime error at PC=0x%08X: %v\n", machine.PC, runErr)
	}

	if *verboseMode {
		fmt.Println("----------------------------------------")
		fmt.Printf("Cycles executed: %d\n", cycles)
		fmt.Printf("Final PC: 0x%08X\n", machine.PC)
	}

	exitCode := 0
	if runErr != nil {
		exitCode = 1
	}

	if *assertionsFile != "" {
		a, err := assertions.Load(*assertionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading assertions: %v\n", err)
			os.Exit(1)
		}
		if err := a.Run(machine.Mem, machine.RF); err != nil {
			fmt.Fprintf(os.Stderr, "Error running assertions: %v\n", err)
			os.Exit(1)
		}
		if a.AllPassed() {
			fmt.Println("Assertions: PASS")
		} else {
			fmt.Println("Assertions: FAIL")
			for _, line := range a.Failures() {
				fmt.Printf("  %s\n", line)
			}
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}

func runAPIServer(port int) {
	server := api.NewServer(port, config.DefaultConfig())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

// mustAbs returns the absolute form of path, or path itself if it
// cannot be resolved; loader.LoadSource re-validates the result
// against fsroot, so a failure here just surfaces later as a proper
// PathEscapesRoot error instead of panicking early.
func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func parseAddress(s string) (uint32, bool) {
	return assembler.ParseInt(s)
}

// buildSymbolsAndSourceMap re-reads and re-assembles path to recover
// its label table for the debugger; assembling twice (once via
// loader.LoadSource, once here) is wasted work but keeps loader's
// filesystem-sandboxing path the only one that touches machine memory.
// The assembler does not expose a per-line address map alongside its
// label table, so source-level listing in the debugger's `list`
// command falls back to disassembly; only labels are available here.
func buildSymbolsAndSourceMap(absPath string) (map[string]uint32, map[uint32]string) {
	src, err := os.ReadFile(absPath) // #nosec G304 -- path already validated by loader.LoadSource
	if err != nil {
		return make(map[string]uint32), make(map[uint32]string)
	}
	_, labels, err := assembler.AssembleProgramWithLabels(string(src))
	if err != nil {
		return make(map[string]uint32), make(map[uint32]string)
	}
	return labels, make(map[uint32]string)
}

func printHelp() {
	fmt.Printf(`rv32 %s - RV32I assembler and simulator

Usage: rv32 [options] <assembly-file>
       rv32 -api-server [-port N]

Options:
  -help              Show this help message
  -version           Show version information
  -api-server        Start HTTP API server mode (no assembly file required)
  -port N            API server port (default: 8080, used with -api-server)
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -mem N             Memory size in bytes (default: 1048576)
  -entry LABEL       Entry point label (default: %s)
  -max-cycles N      Maximum cycles before forced stop (default: 1000000)
  -stop-pc ADDR      Stop execution when PC reaches this address (hex or decimal)
  -assertions FILE   Check final state against an assertion file, exit non-zero on failure
  -verbose           Enable verbose output
  -fsroot DIR        Restrict file operations to directory (default: current directory)
  -trace             Enable per-instruction execution trace
  -trace-file FILE   Trace output file (default: trace.log in log dir)

Examples:
  # Run a program directly
  rv32 examples/hello.s

  # Run with debugger
  rv32 -debug examples/fibonacci.s

  # Run with TUI debugger
  rv32 -tui examples/bubble_sort.s

  # Run with an entry label and a stop address
  rv32 -entry main -stop-pc 0x1000 program.s

  # Check a program against an assertion file
  rv32 -assertions expected.json program.s

  # Start the API server for browser/GUI frontends
  rv32 -api-server -port 3000
`, Version, loader.DefaultEntryLabel)
}
