package health

type Input struct{}

type Output struct {
	Status int `json:"-"`
	Body   Response
}

type Response struct {
	Status string `json:"status" example:"OK" doc:"OK или DEGRADED"`
	Store  string `json:"store" example:"up" doc:"Состояние локального хранилища"`
}
