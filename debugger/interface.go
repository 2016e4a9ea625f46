package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rv32i/emulator/vm"
)

// RunCLI runs the command-line debugger interface
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		// Print prompt
		fmt.Print("(rv32-dbg) ")

		// Read command
		if !scanner.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(scanner.Text())

		// Exit commands
		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		// Execute command
		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		// Print any output from the debugger
		output := dbg.GetOutput()
		if output != "" {
			fmt.Print(output)
		}

		// If running, execute until breakpoint or a step error halts us
		if dbg.Running {
			for dbg.Running {
				// Execute one step
				if err := vm.Step(&dbg.Mcu.PC, dbg.Mcu.Mem, dbg.Mcu.RF); err != nil {
					dbg.LastError = err
					dbg.Running = false
					fmt.Printf("Program stopped: %v\n", err)
					break
				}
				dbg.Cycles++

				// Check for a stop condition after execution, so "step"
				// runs exactly one instruction
				if shouldBreak, reason := dbg.ShouldBreak(); shouldBreak {
					dbg.Running = false
					fmt.Printf("Stopped: %s at PC=0x%08X\n", reason, dbg.Mcu.PC)
					break
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the TUI (Text User Interface) debugger
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
