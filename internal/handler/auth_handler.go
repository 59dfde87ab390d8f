package handler

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ericoliveiras/giovanna-flores/internal/model"
)

const (
	ValidadeToken = 12 * time.Hour
	emissorToken  = "giovanna-flores"
)

var errNaoAutenticado = errors.New("credenciais ausentes ou inválidas")

// AuthHandler cuida do acesso ao painel. APIToken é um token fixo opcional,
// aceito como Bearer no lugar do JWT.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	APIToken  string
}

// Login recebe {username, password} e devolve {token, expiresAt, user}.
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe usuário e senha."})
		return
	}

	usuario, err := h.verificarSenha(in.Username, in.Password)
	if err != nil {
		if !errors.Is(err, errNaoAutenticado) {
			log.Printf("Erro ao buscar lojista %q: %v", in.Username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocorreu um erro interno. Tente novamente."})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Usuário ou senha inválidos."})
		return
	}

	expira := time.Now().Add(ValidadeToken)
	token, err := h.gerarToken(usuario, expira)
	if err != nil {
		log.Printf("Erro ao gerar token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao iniciar a sessão. Tente novamente."})
		return
	}
	log.Printf("Lojista %s entrou no painel", usuario.Login)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expira,
		"user":      gin.H{"id": usuario.ID, "name": usuario.Nome, "username": usuario.Login},
	})
}

// Me devolve o usuário autenticado.
func (h *AuthHandler) Me(c *gin.Context) {
	usuario := c.MustGet("user").(model.Usuario)
	c.JSON(http.StatusOK, gin.H{"id": usuario.ID, "name": usuario.Nome, "username": usuario.Login, "role": usuario.Tipo})
}

func (h *AuthHandler) verificarSenha(login, senha string) (model.Usuario, error) {
	var usuario model.Usuario
	err := h.DB.Where("login = ?", login).First(&usuario).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Usuario{}, errNaoAutenticado
	}
	if err != nil {
		return model.Usuario{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(senha)); err != nil {
		return model.Usuario{}, errNaoAutenticado
	}
	return usuario, nil
}

func (h *AuthHandler) gerarToken(usuario model.Usuario, expira time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    emissorToken,
		Subject:   strconv.FormatUint(uint64(usuario.ID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expira),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.JWTSecret)
}

func (h *AuthHandler) validarToken(token string) (model.Usuario, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return h.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(emissorToken))
	if err != nil {
		return model.Usuario{}, fmt.Errorf("%w: %v", errNaoAutenticado, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return model.Usuario{}, errNaoAutenticado
	}
	var usuario model.Usuario
	if err := h.DB.First(&usuario, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Usuario{}, errNaoAutenticado
		}
		return model.Usuario{}, err
	}
	return usuario, nil
}

// autenticar aceita Bearer (JWT ou token fixo), Basic e ?token= (websocket).
func (h *AuthHandler) autenticar(c *gin.Context) (model.Usuario, error) {
	header := c.GetHeader("Authorization")
	switch {
	case strings.HasPrefix(header, "Bearer "):
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if h.APIToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.APIToken)) == 1 {
			return model.Usuario{Nome: "Token do painel", Login: "api", Tipo: model.RoleLojista}, nil
		}
		return h.validarToken(token)
	case strings.HasPrefix(header, "Basic "):
		login, senha, ok := c.Request.BasicAuth()
		if !ok {
			return model.Usuario{}, errNaoAutenticado
		}
		return h.verificarSenha(login, senha)
	case c.Query("token") != "":
		return h.validarToken(c.Query("token"))
	}
	return model.Usuario{}, errNaoAutenticado
}

// AdminRequired libera a rota só para o lojista. O usuário fica em c.Get("user").
func (h *AuthHandler) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		usuario, err := h.autenticar(c)
		if err != nil {
			if !errors.Is(err, errNaoAutenticado) {
				log.Printf("AdminRequired: erro ao autenticar: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Ocorreu um erro interno. Tente novamente."})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autorizado."})
			return
		}
		if usuario.Tipo != model.RoleLojista {
			log.Printf("AdminRequired: acesso negado para %s (papel %s)", usuario.Login, usuario.Tipo)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso negado."})
			return
		}
		c.Set("user", usuario)
		c.Next()
	}
}
