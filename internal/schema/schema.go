// Package schema assembles the plain-text schema description injected into
// the model's instructions. The production description is static and
// declarative: the investment dataset carries bilingual business meaning and
// locale quirks that cannot be inferred from column types, so it is written
// by hand and kept in insertion order. A live-introspection mode exists as
// an alternative for generic databases.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/datamef/inverchat/internal/db"
)

// ColumnDescription pairs a model-facing column name with its business
// meaning. The set behaves as an ordered map: names are unique and render
// order is declaration order.
type ColumnDescription struct {
	Name        string
	Description string
}

// Columns is the descriptor table for total_inversiones. Immutable after
// construction; do not append at runtime.
var Columns = []ColumnDescription{
	{"CODIGO_UNICO", "Código Único de la Inversión"},
	{"CODIGO_SNIP", "Código SNIP de la Inversión"},
	{"NOMBRE_INVERSION", "Nombre de la Inversión"},
	{"ESTADO", "Estado de la Inversión: ACTIVO / CERRADO / DESACTIVADO"},
	{"SITUACION", "Situación de la Inversión: VIABLE / APROBADO / NO VIABLE / NO APROBADO / EN FORMULACIÓN / EN REGISTRO"},
	{"MARCO", "Sistema de Inversión Pública: SNIP / INVIERTE"},
	{"TIPO_FORMATO", "Descripción del formato de inversión: PROYECTO DE INVERSIÓN / IOARR / PROGRAMA DE INVERSIÓN / PROYECTOS ESPECIALES"},
	{"UNIDAD_FORMULADORA_UF", "UF: Unidad Formuladora de la Inversión"},
	{"UNIDAD_EJECUTORA_INVERSIONES", "Nombre de la Unidad Ejecutora de Inversiones en la Fase de Ejecución"},
	{"OPMI", "Nombre de la Oficina de Programación Multianual de Inversiones (OPMI)"},
	{"DEPARTAMENTO_OPMI", "Departamento de la OPMI (Oficina de Programación Multianual de Inversiones)"},
	{"CODIGO_EJECUTORA_PRESUPUESTAL", "Código de la Unidad Ejecutora Presupuestal (UEP) asignada a la Inversión"},
	{"NOMBRE_EJECUTORA_PRESUPUESTAL", "Nombre de la Unidad Ejecutora Presupuestal (UEP) asignada a la Inversión"},
	{"FUNCION", "Nombre de la Función"},
	{"DIVISION_FUNCIONAL", "Nombre de la División Funcional"},
	{"GRUPO_FUNCIONAL", "Nombre del Grupo Funcional"},
	{"BENEFICIARIOS", "Número de beneficiarios de la Inversión"},
	{"FECHA_REGISTRO", "Fecha de registro de la inversión"},
	{"FECHA_VIABILIDAD", "Fecha de la VIABILIDAD / APROBACIÓN de la Inversión"},
	{"COSTO_INVERSION_VIABLE", "Costo de la Inversión con la que fue declarada viable"},
	{"DEPARTAMENTO_INVERSION", "Departamento donde se ubica la Inversión"},
	{"TIPOLOGIA_DE_INVERSION", "Tipología registrada de la Inversión"},
	{"EXPEDIENTE TECNICO", "Indicador de registro de Expediente Técnico: SI / NO"},
	{"TIENE_FORMATO_08", "Indicador de si la Inversión tiene registro en el Formato 08 (Ejecución): SI / NO"},
	{"ETAPA_FORMATO_08_ACTUAL", "Etapa actual en la cual se encuentra la Inversión: CONSISTENCIA / EXPEDIENTE TÉCNICO / EJECUCIÓN FÍSICA"},
	{"FECHA_INICIO_INVERSION", "Fecha de inicio de la ejecución de la inversión registrada en el Formato 08"},
	{"FECHA_FIN_INVERSION", "Fecha de fin de la ejecución de la Inversión registrada en el Formato 08"},
	{"COSTO_INVERSION_ACTUALIZADO", "Costo de la Inversión actualizado"},
	{"COSTO_CONTROVERSIAS", "Costo de controversias asociadas a la Inversión"},
	{"MONTO_CARTA_FIANZA", "Monto de la Carta Fianza asociada a la Inversión"},
	{"COSTO_TOTAL_INV_ACTUALIZADO", "Costo Total de la Inversión Actualizado"},
	{"DEVENGADO_ACUMULADO", "Monto devengado acumulado de la inversión"},
	{"PIM_AÑO_ACTUAL", "Monto PIM del año actual"},
	{"DEVENGADO_AÑO_ATUAL", "Monto DEVENGADO del año actual"},
	{"AVANCE_FINANCIERO", "Avance financiero de la inversión: Devengado del año actual / Monto PIM"},
	{"REGISTRA_FORMATO_12B", "Indicador de registro del Formato F12B: SI / NO"},
	{"FECHA_ACTUALIZACION_F12B", "Fecha de actualización del Formato F12B"},
	{"AVANCE_FISICO_INVERSION", "Avance físico de la inversión registrado en el Formato F12B"},
	{"AVANCE_EJECUCION_INVERSION", "Avance de ejecución de la inversión registrado en el Formato F12B"},
	{"FECHA_REGISTRO_SITUACION", "Fecha actualizada del registro de la situación de la inversión"},
	{"DESCRIPCION_ULTIMA_SITUACION", "Descripción de la última situación de la Inversión"},
	{"TIENE_FORMATO_09", "Indicador de si la Inversión tiene registro en el Formato 09 (Cierre): SI / NO"},
	{"ESTADO_REGISTRO_CIERRE", "Estado registrado en la fase del cierre de la Inversión"},
	{"FECHA_REGISTRO_CIERRE", "Fecha del registro de cierre de la Inversión"},
	{"NIVEL", "Nivel de gobierno de la Unidad Formuladora: GN (Gobierno Nacional), GR (Gobiernos Regionales), GL (Gobiernos Locales)"},
	{"SECTOR", "Sector de gobierno de la Unidad Formuladora"},
	{"PLIEGO", "Pliego / Entidad de la Unidad Formuladora"},
}

// Builder renders the schema description for one table.
type Builder struct {
	tableName string
	columns   []ColumnDescription
}

func NewBuilder(tableName string) *Builder {
	return &Builder{
		tableName: tableName,
		columns:   Columns,
	}
}

// MandatoryFields lists the columns every answer must surface when present.
func (b *Builder) MandatoryFields() string {
	return strings.TrimSpace(`
CAMPOS OBLIGATORIOS A MOSTRAR EN RESPUESTAS (cuando estén disponibles):
- CODIGO_UNICO: Código Único de la Inversión
- CODIGO_SNIP: Código SNIP de la Inversión
- NOMBRE_INVERSION: Nombre de la Inversión
- ESTADO: Estado de la Inversión: ACTIVO / CERRADO / DESACTIVADO
- SITUACION: Situación de la Inversión: VIABLE / APROBADO / NO VIABLE / NO APROBADO / EN FORMULACIÓN / EN REGISTRO
`)
}

// FilterFields enumerates the filterable dimensions plus the locale
// guidance the model needs to build WHERE clauses that actually match the
// stored values.
func (b *Builder) FilterFields() string {
	return strings.TrimSpace(`
CAMPOS PARA FILTRAR INFORMACIÓN:
- NIVEL: Nivel de gobierno de la Unidad Formuladora: GN (Gobierno Nacional), GR (Gobiernos Regionales), GL (Gobiernos Locales)
- SECTOR: Sector de gobierno de la Unidad Formuladora
- PLIEGO: Pliego / Entidad de la Unidad Formuladora
- TIPO_FORMATO: Descripción del formato de inversión: PROYECTO DE INVERSIÓN / IOARR / PROGRAMA DE INVERSIÓN / PROYECTOS ESPECIALES
- UNIDAD_FORMULADORA_UF: UF: Unidad Formuladora de la Inversión
- UNIDAD_EJECUTORA_INVERSIONES: Nombre de la Unidad Ejecutora de Inversiones en la Fase de Ejecución
- OPMI: Nombre de la Oficina de Programación Multianual de Inversiones (OPMI)
- DEPARTAMENTO_OPMI: Departamento de la OPMI (Oficina de Programación Multianual de Inversiones)
- NOMBRE_EJECUTORA_PRESUPUESTAL: Nombre de la Unidad Ejecutora Presupuestal (UEP) asignada a la Inversión
- FUNCION: Nombre de la Función
- DEPARTAMENTO_INVERSION: Departamento donde se ubica la Inversión
- TIPOLOGIA_DE_INVERSION: Tipología registrada de la Inversión

NORMALIZACIÓN DE VALORES EN FILTROS:
- Los nombres de departamentos se almacenan en mayúsculas y sin tildes: "Junín" se filtra como 'JUNIN', "Apurímac" como 'APURIMAC'.
- Caso especial: "Lima Metropolitana" se almacena como 'LIMA'.
`)
}

// ColumnDescriptions renders the descriptor table as "- NAME: description"
// lines, preserving declaration order.
func (b *Builder) ColumnDescriptions() string {
	var sb strings.Builder
	for _, c := range b.columns {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Name, c.Description)
	}
	return sb.String()
}

// DetailFields is the drill-down template: which columns to project when the
// user asks about one specific investment by its unique code.
func (b *Builder) DetailFields() string {
	return strings.TrimSpace(`
CONSULTA DE DETALLE POR CODIGO_UNICO:
Cuando el usuario pregunte por una inversión específica, consulta por su
CODIGO_UNICO y proyecta: CODIGO_UNICO, CODIGO_SNIP, NOMBRE_INVERSION, ESTADO,
SITUACION, COSTO_TOTAL_INV_ACTUALIZADO, DEVENGADO_ACUMULADO,
AVANCE_FINANCIERO, AVANCE_FISICO_INVERSION, DEPARTAMENTO_INVERSION,
UNIDAD_EJECUTORA_INVERSIONES, FECHA_INICIO_INVERSION, FECHA_FIN_INVERSION.
`)
}

// BuildInfo concatenates all blocks into the single text the agent splices
// into its instructions at session start.
func (b *Builder) BuildInfo() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TABLA: %s\n", b.tableName)
	sb.WriteString("\n")
	sb.WriteString(b.MandatoryFields())
	sb.WriteString("\n\n")
	sb.WriteString(b.FilterFields())
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "DESCRIPCIÓN DE COLUMNAS de la tabla %s:\n", b.tableName)
	sb.WriteString(b.ColumnDescriptions())
	sb.WriteString("\n")
	sb.WriteString(b.DetailFields())
	return sb.String()
}

// Introspect is the alternative construction mode: it reads table and column
// metadata from the live catalog instead of the hand-written descriptors.
// Useful when pointing the assistant at an arbitrary database.
func Introspect(ctx context.Context, backend db.Backend) (string, error) {
	tables, err := backend.ListTables(ctx)
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}

	var sb strings.Builder
	for _, table := range tables {
		cols, err := backend.DescribeTable(ctx, table)
		if err != nil {
			return "", fmt.Errorf("describe table %s: %w", table, err)
		}
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, fmt.Sprintf("%s: %s", c.Name, c.Type))
		}
		fmt.Fprintf(&sb, "Table %s Schema: Columns: %s\n", table, strings.Join(parts, ", "))
	}
	return sb.String(), nil
}
