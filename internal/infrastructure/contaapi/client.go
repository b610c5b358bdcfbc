// Package contaapi implementa el cliente HTTP hacia el API de contabilidad
// (CONTAi) que expone empresas, egresos timbrados y los catálogos de
// CONTPAQi. Implementa el puerto ports.ContaAPI.
package contaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joseolvr/egresos-bridge/internal/application/ports"
	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/domain/contpaqi"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
	"github.com/joseolvr/egresos-bridge/pkg/logger"
)

// maxBody límite de lectura de respuestas del upstream (las listas de
// egresos de un mes pueden ser grandes, pero nunca tanto).
const maxBody = 16 << 20 // 16 MB

// Client es el cliente HTTP del API de contabilidad.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

var _ ports.ContaAPI = (*Client)(nil)

// New construye el cliente. baseURL es la raíz del API (incluyendo /api).
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// headers fija los encabezados que el upstream exige en cada petición. El
// túnel ngrok devuelve una página HTML de aviso si no se manda el header de
// salto.
func (c *Client) headers(req *http.Request, token string) {
	req.Header.Set("accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("ngrok-skip-browser-warning", "true")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) get(ctx context.Context, token, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("contaapi: creando petición: %w", err)
	}
	c.headers(req, token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contaapi: %w: %v", domain.ErrUpstream, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, fmt.Errorf("contaapi: GET %s: %w", path, domain.ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		c.log.Warn().Str("path", path).Int("status", resp.StatusCode).Msg("respuesta de error del upstream")
		return nil, fmt.Errorf("contaapi: GET %s devolvió %d: %w", path, resp.StatusCode, domain.ErrUpstream)
	}
	return resp, nil
}

// Login autentica contra el upstream.
func (c *Client) Login(ctx context.Context, usuario, contrasena string) (*ports.LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"usuario":    usuario,
		"contrasena": contrasena,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contaapi: creando petición: %w", err)
	}
	c.headers(req, "")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contaapi: %w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("login rechazado por el upstream")
		return nil, fmt.Errorf("contaapi: login devolvió %d: %w", resp.StatusCode, domain.ErrUnauthorized)
	}
	var result ports.LoginResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&result); err != nil {
		return nil, fmt.Errorf("contaapi: decodificando login: %w", err)
	}
	return &result, nil
}

// Empresas lista las empresas del usuario.
func (c *Client) Empresas(ctx context.Context, token string) ([]entity.Empresa, error) {
	resp, err := c.get(ctx, token, "/Empresas", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var empresas []entity.Empresa
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&empresas); err != nil {
		return nil, fmt.Errorf("contaapi: decodificando empresas: %w", err)
	}
	return empresas, nil
}

// Egresos consulta los egresos timbrados de una empresa en un rango.
func (c *Client) Egresos(ctx context.Context, token, guid, rfc, desde, hasta string) ([]*entity.Registro, error) {
	q := url.Values{}
	q.Set("Guid", guid)
	q.Set("From", desde)
	q.Set("To", hasta)
	q.Set("Rfc", rfc)
	resp, err := c.get(ctx, token, "/AddEgresos", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	regs, err := entity.DecodeRegistros(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("contaapi: decodificando egresos: %w", err)
	}
	return regs, nil
}

// DetalleXML pide el comprobante de un documento. El upstream a veces
// responde JSON (envuelto en niveles variables) y a veces texto XML plano;
// el Content-Type decide.
func (c *Client) DetalleXML(ctx context.Context, token, guidDb, guidDocumento string) (any, error) {
	q := url.Values{}
	q.Set("guidDb", guidDb)
	q.Set("guidDocument", guidDocumento)
	resp, err := c.get(ctx, token, "/DetalleXml", q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		v, err := entity.DecodeJSON(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return nil, fmt.Errorf("contaapi: decodificando detalle: %w", err)
		}
		return v, nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("contaapi: leyendo detalle: %w", err)
	}
	return string(raw), nil
}

// ConceptosCompras lista los conceptos de compra de CONTPAQi.
func (c *Client) ConceptosCompras(ctx context.Context, token, baseDatos string) ([]*entity.Registro, error) {
	q := url.Values{}
	q.Set("databaseName", baseDatos)
	return c.getRegistros(ctx, token, "/Conceptos/compras", q)
}

// Proveedores lista los proveedores de CONTPAQi; con rfc filtra por RFC.
func (c *Client) Proveedores(ctx context.Context, token, baseDatos, rfc string) ([]*entity.Registro, error) {
	q := url.Values{}
	q.Set("databaseName", baseDatos)
	if strings.TrimSpace(rfc) != "" {
		q.Set("rfc", strings.TrimSpace(rfc))
	}
	return c.getRegistros(ctx, token, "/Proveedores", q)
}

// Productos lista los productos y servicios de CONTPAQi.
func (c *Client) Productos(ctx context.Context, token, baseDatos string) ([]*entity.Registro, error) {
	q := url.Values{}
	q.Set("databaseName", baseDatos)
	return c.getRegistros(ctx, token, "/Productos", q)
}

func (c *Client) getRegistros(ctx context.Context, token, path string, q url.Values) ([]*entity.Registro, error) {
	resp, err := c.get(ctx, token, path, q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	regs, err := entity.DecodeRegistros(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("contaapi: decodificando %s: %w", path, err)
	}
	return regs, nil
}

// CrearDocumento registra el egreso en CONTPAQi. La respuesta puede venir
// como JSON o como texto plano.
func (c *Client) CrearDocumento(ctx context.Context, token string, doc contpaqi.Documento) (any, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/Documentos", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contaapi: creando petición: %w", err)
	}
	c.headers(req, token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contaapi: %w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("el upstream rechazó el documento")
		return nil, fmt.Errorf("contaapi: POST /Documentos devolvió %d: %w", resp.StatusCode, domain.ErrUpstream)
	}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		v, err := entity.DecodeJSON(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			return nil, fmt.Errorf("contaapi: decodificando respuesta: %w", err)
		}
		return v, nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("contaapi: leyendo respuesta: %w", err)
	}
	return string(raw), nil
}
