package main

import "tasklens/internal/app"

func main() {
	app.Run()
}
