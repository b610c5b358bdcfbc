package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrUpstream              = errors.New("error del servicio upstream")
	ErrEmpresaNoSeleccionada = errors.New("no hay empresa seleccionada")
	ErrEgresoNoSeleccionado  = errors.New("no hay egreso seleccionado")
	ErrYaEnviado             = errors.New("el documento ya fue enviado a comercial")
)
