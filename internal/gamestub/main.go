// Command gamestub is a fixture program that paints NetHack-shaped tty
// screens for integration testing against a real tmux server. It reads
// stdin line by line; each command repaints the screen with a canned
// scenario.
//
// Commands:
//   - "sale": shows a shop price quote on the message line
//   - "offer": shows a shopkeeper buying offer
//   - "call": opens a call prompt on the top line
//   - "rest": shows the Ctrl+E wizdetect message
//   - "read <text>": shows the result of reading the square
//   - "die": shows the possessions-identified prompt
//   - "turn N": sets the turn counter for the status row
//   - "quit": exits with status 0
//   - anything else: echoed on the message line
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const mapRows = 18

type stub struct {
	message string
	turn    int
}

func main() {
	s := &stub{turn: 1}
	s.paint()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "quit":
			os.Exit(0)

		case input == "sale":
			s.message = "You see here a milky potion (for sale, 20 zorkmids)."

		case input == "offer":
			s.message = "Izchak offers 50 gold pieces for your cyan potion."

		case input == "call":
			s.message = "Call a milky potion:"

		case input == "rest":
			s.message = "Unavailable command 'wizdetect'."

		case strings.HasPrefix(input, "read "):
			s.message = fmt.Sprintf("You read: %q.", strings.TrimPrefix(input, "read "))

		case input == "die":
			s.message = "Do you want your possessions identified? [ynq] (n)"

		case strings.HasPrefix(input, "turn "):
			n, err := strconv.Atoi(strings.TrimPrefix(input, "turn "))
			if err != nil {
				s.message = fmt.Sprintf("error: invalid turn %q", strings.TrimPrefix(input, "turn "))
			} else {
				s.turn = n
				s.message = ""
			}

		default:
			s.message = input
		}
		s.turn++
		s.paint()
	}
}

// paint redraws the whole screen: message line, map filler, and the two
// status rows the engine syncs on.
func (s *stub) paint() {
	// Clear and home.
	fmt.Print("\x1b[2J\x1b[H")
	fmt.Println(s.message)
	for i := 0; i < mapRows; i++ {
		fmt.Println("                                    .....")
	}
	fmt.Println("[Stubber the Conjurer     ]  St:16 Dx:14 Co:15 In:9 Wi:10 Ch:11  Neutral")
	fmt.Printf("Dlvl:2  $:120  HP:14(16) Pw:5(5) AC:6  Xp:3/34 T:%d\n", s.turn)
}
