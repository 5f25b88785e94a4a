package main

import "techwiz/internal/app"

// @title           TechWiz API
// @version         1.0
// @description     Бэкенд школьной платформы: аутентификация, пользователи, табели

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
