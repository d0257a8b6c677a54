/*
Package mocks will have all the mocks of the library.
*/
package mocks // import "github.com/whaeuser/healthterm/internal/mocks"

//go:generate mockery -output ./service/healthstore -outpkg healthstore -dir ../service/healthstore -name Provider
//go:generate mockery -output ./view/publish -outpkg publish -dir ../view/publish -name Subscriber
