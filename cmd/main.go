package main

import "github.com/yungbote/botanica-backend/internal/cmd"

func main() {
	cmd.Execute()
}
