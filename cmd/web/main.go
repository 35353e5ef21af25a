package main

import "devcraft_backend/internal/app"

func main() {
	app.Run()
}
