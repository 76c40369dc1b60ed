// seatctl is a small operator tool for inspecting a running seat
// allocator: it lists exams, the upcoming ranking, and per-exam waitlists
// over the HTTP API.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("url", getEnv("SEATCTL_URL", "http://localhost:8080"), "seat allocator base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var err error
	switch flag.Arg(0) {
	case "exams":
		err = listExams(client, *baseURL, "/api/exams", "All Exams")
	case "upcoming":
		err = listExams(client, *baseURL, "/api/exams/upcoming", "Upcoming Exams (earliest first)")
	case "waitlist":
		if flag.NArg() < 2 {
			usage()
			os.Exit(2)
		}
		err = showWaitlist(client, *baseURL, flag.Arg(1))
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: seatctl [-url http://host:port] <command>")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  exams               list all exams")
	fmt.Fprintln(os.Stderr, "  upcoming            list exams dated today or later, earliest first")
	fmt.Fprintln(os.Stderr, "  waitlist <examID>   show an exam's waitlist in arrival order")
}

func getJSON(client *http.Client, url string, dst any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr model.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func listExams(client *http.Client, baseURL, path, title string) error {
	var exams []model.Exam
	if err := getJSON(client, baseURL+path, &exams); err != nil {
		return err
	}

	color.Cyan("\n%s", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Date", "Time", "Type", "Priority", "Seats Left", "Total"})

	for _, e := range exams {
		date := "-"
		if e.Date != nil {
			date = e.Date.String()
		}
		table.Append([]string{
			e.ID,
			e.Name,
			date,
			e.Time,
			string(e.Type),
			string(e.Priority),
			strconv.Itoa(e.AvailableSeats),
			strconv.Itoa(e.TotalSeats),
		})
	}
	table.Render()
	fmt.Printf("%d exam(s)\n", len(exams))
	return nil
}

func showWaitlist(client *http.Client, baseURL, examID string) error {
	var names []string
	if err := getJSON(client, baseURL+"/api/exams/"+examID+"/waitlist", &names); err != nil {
		return err
	}

	color.Cyan("\nWaitlist for exam %s", examID)
	if len(names) == 0 {
		fmt.Println("(empty)")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Position", "Student"})
	for i, name := range names {
		table.Append([]string{strconv.Itoa(i + 1), name})
	}
	table.Render()
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
