package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Response mirrors the server's JSON response line.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	Code    string          `json:"code,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// QueryResult is the payload of a "query" response.
type QueryResult struct {
	Columns []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"columns"`
	Rows [][]*string `json:"rows"`
}

// ExecResult is the payload of an "exec" response.
type ExecResult struct {
	Tag          string `json:"tag"`
	RowsAffected int    `json:"rows_affected"`
}

// CLI holds the client state.
type CLI struct {
	conn        net.Conn
	reader      *bufio.Reader
	history     []string
	historyFile string
}

func main() {
	addr := flag.String("addr", "localhost:7433", "server address")
	token := flag.String("token", "", "JWT token for authentication")
	sqlFile := flag.String("sqlFile", "", "SQL file to execute (non-interactive)")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Printf("%sError: cannot connect to %s: %v%s\n", ErrorColor, *addr, err, ResetColor)
		os.Exit(1)
	}
	defer conn.Close()

	cli := &CLI{
		conn:        conn,
		reader:      bufio.NewReader(conn),
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
	}
	cli.loadHistory()

	if *token != "" {
		resp, err := cli.send("AUTH JWT " + *token)
		if err != nil || !resp.Success {
			msg := ""
			if err != nil {
				msg = err.Error()
			} else {
				msg = resp.Error
			}
			fmt.Printf("%sAuthentication failed: %s%s\n", ErrorColor, msg, ResetColor)
			os.Exit(1)
		}
		fmt.Printf("%s✓ Authenticated%s\n", SuccessColor, ResetColor)
	}

	if *sqlFile != "" {
		if err := cli.importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	printBanner(*addr)
	cli.run()
}

func printBanner(addr string) {
	fmt.Println()
	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║          Quarry SQL v%-7s          ║%s\n", BoldColor, PromptColor, Version, ResetColor)
	fmt.Printf("%s%s║   In-memory SQL Database Engine       ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Printf("Connected to %s\n", addr)
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

// send writes one line to the server and decodes the response line.
func (cli *CLI) send(line string) (Response, error) {
	if _, err := cli.conn.Write([]byte(line + "\n")); err != nil {
		return Response{}, fmt.Errorf("send failed: %w", err)
	}
	raw, err := cli.reader.ReadString('\n')
	if err != nil {
		return Response{}, fmt.Errorf("connection lost: %w", err)
	}
	var resp Response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return Response{}, fmt.Errorf("bad response: %w", err)
	}
	return resp, nil
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		fmt.Print(cli.getPrompt(multiLineBuffer.Len() > 0))

		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			cli.saveHistory()
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		if strings.TrimSpace(input) == "" {
			continue
		}

		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if cli.handleCommand(input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		sql := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(sql) == "" {
			continue
		}

		cli.addToHistory(sql + ";")
		cli.execute(sql)
	}
}

func (cli *CLI) execute(sql string) {
	resp, err := cli.send(sql)
	if err != nil {
		fmt.Printf("%s✗ %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	cli.display(resp)
}

func (cli *CLI) display(resp Response) {
	if !resp.Success {
		if resp.Code != "" {
			fmt.Printf("%s✗ Error [%s]: %s%s\n", ErrorColor, resp.Code, resp.Error, ResetColor)
		} else {
			fmt.Printf("%s✗ Error: %s%s\n", ErrorColor, resp.Error, ResetColor)
		}
		return
	}

	switch resp.Type {
	case "query":
		var qr QueryResult
		if err := json.Unmarshal(resp.Result, &qr); err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			return
		}
		displayTable(qr)
	case "exec":
		var er ExecResult
		if err := json.Unmarshal(resp.Result, &er); err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			return
		}
		if er.RowsAffected > 0 {
			fmt.Printf("%s✓ %s %d%s\n", SuccessColor, er.Tag, er.RowsAffected, ResetColor)
		} else {
			fmt.Printf("%s✓ %s%s\n", SuccessColor, er.Tag, ResetColor)
		}
	default:
		fmt.Printf("%s✓ OK%s\n", SuccessColor, ResetColor)
	}
}

// displayTable renders a result set as an ASCII table.
func displayTable(qr QueryResult) {
	if len(qr.Columns) == 0 {
		fmt.Printf("(%d rows)\n", len(qr.Rows))
		return
	}

	widths := make([]int, len(qr.Columns))
	for i, col := range qr.Columns {
		widths[i] = len(col.Name)
	}
	for _, row := range qr.Rows {
		for i, cell := range row {
			text := "NULL"
			if cell != nil {
				text = *cell
			}
			if i < len(widths) && len(text) > widths[i] {
				widths[i] = len(text)
			}
		}
	}

	var sep strings.Builder
	sep.WriteByte('+')
	for _, w := range widths {
		sep.WriteString(strings.Repeat("-", w+2))
		sep.WriteByte('+')
	}

	fmt.Println(sep.String())
	fmt.Print("|")
	for i, col := range qr.Columns {
		fmt.Printf(" %-*s |", widths[i], col.Name)
	}
	fmt.Println()
	fmt.Println(sep.String())
	for _, row := range qr.Rows {
		fmt.Print("|")
		for i := range qr.Columns {
			text := "NULL"
			if i < len(row) && row[i] != nil {
				text = *row[i]
			}
			fmt.Printf(" %-*s |", widths[i], text)
		}
		fmt.Println()
	}
	fmt.Println(sep.String())
	fmt.Printf("(%d rows)\n", len(qr.Rows))
}

func (cli *CLI) handleCommand(input string) bool {
	cmd := strings.TrimSpace(input)
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		cli.saveHistory()
		cli.conn.Write([]byte("quit\n"))
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".auth":
		if len(parts) > 1 {
			resp, err := cli.send("AUTH JWT " + parts[1])
			if err != nil {
				fmt.Printf("%s✗ %v%s\n", ErrorColor, err, ResetColor)
			} else if !resp.Success {
				fmt.Printf("%s✗ %s%s\n", ErrorColor, resp.Error, ResetColor)
			} else {
				fmt.Printf("%s✓ Authenticated%s\n", SuccessColor, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .auth <token>%s\n", ErrorColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Printf("Quarry version %s\n", Version)

	case ".import":
		if len(parts) > 1 {
			if err := cli.importFile(parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h        Show this help message")
	fmt.Println("  .quit, .exit     Exit the CLI")
	fmt.Println("  .auth <token>    Authenticate with a JWT token")
	fmt.Println("  .import <file>   Execute SQL statements from a file")
	fmt.Println("  .history         Show command history")
	fmt.Println("  .clear           Clear the screen")
	fmt.Println("  .version         Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  CREATE SCHEMA <name>;")
	fmt.Println("  CREATE TABLE <schema>.<table> (<column> <type>, ...);")
	fmt.Println("  DROP SCHEMA <name> [CASCADE];")
	fmt.Println("  DROP TABLE <schema>.<table>;")
	fmt.Println("  INSERT INTO <schema>.<table> [(<cols>)] VALUES (<vals>), ...;")
	fmt.Println("  SELECT <cols> FROM <schema>.<table>;")
	fmt.Println("  UPDATE <schema>.<table> SET <col> = <val>, ...;")
	fmt.Println("  DELETE FROM <schema>.<table>;")
	fmt.Println()
	fmt.Printf("%s%sTypes:%s smallint, integer, bigint, char(n), varchar(n), boolean\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%squarry>%s ", PromptColor, ResetColor)
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)
	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}
	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}
	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".quarry_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}
	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}
	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}
	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

// importFile reads and executes SQL statements from a file.
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	statements := splitStatements(string(data))

	successCount := 0
	errorCount := 0

	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		resp, err := cli.send(stmt)
		if err != nil {
			return err
		}
		if !resp.Success {
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Printf("      Error: %s\n", resp.Error)
			errorCount++
			continue
		}
		successCount++
		fmt.Printf("%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)
	return nil
}

// splitStatements splits SQL content into individual statements.
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if ch == '\'' {
			inString = !inString
		}

		// Handle comments
		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}

		if !inString && ch == ';' {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	stmt := strings.TrimSpace(current.String())
	if stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// truncate shortens a string to max length with ellipsis.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
