package agent

import (
	"fmt"
	"os"
	"strings"
)

// SchemaPlaceholder is the token in the instructions file that gets spliced
// with the schema description at session start.
const SchemaPlaceholder = "{database_schema_string}"

// DefaultInstructions mirrors the deployed instructions file. Operators can
// override it with their own file; the placeholder contract stays the same.
const DefaultInstructions = `Eres un asistente que responde preguntas sobre la cartera de inversión pública
usando exclusivamente los datos de la base de datos.

Reglas:
- Para responder, genera una consulta SQL y ejecútala con la herramienta
  fetch_investment_data. Nunca inventes cifras.
- Usa solo las columnas descritas abajo. Incluye siempre los campos
  obligatorios cuando estén disponibles en el resultado.
- Si la consulta no devuelve resultados, reformula la pregunta o indícale al
  usuario que no hay datos; no lo trates como un error.
- Responde en el idioma del usuario y presenta los resultados tabulares de
  forma legible.

Esquema de la base de datos:
{database_schema_string}`

// BuildSystemPrompt splices the schema description into the instructions by
// replacing the placeholder token.
func BuildSystemPrompt(instructions, schemaInfo string) string {
	return strings.ReplaceAll(instructions, SchemaPlaceholder, schemaInfo)
}

// LoadInstructions reads an operator-provided instructions file, falling
// back to the built-in text when path is empty.
func LoadInstructions(path string) (string, error) {
	if path == "" {
		return DefaultInstructions, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load instructions: %w", err)
	}
	return string(raw), nil
}
