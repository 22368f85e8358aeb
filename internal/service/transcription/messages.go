package transcription

import "audio-notebook-service/internal/service/stt"

// User-facing strings. The UI renders Spanish; logs stay English.
const (
	msgStartingFmt        = "🔄 Iniciando proceso para '%s'..."
	msgReadingFile        = "📖 Leyendo archivo de audio..."
	msgCheckingCreds      = "🔐 Verificando credenciales de usuario..."
	msgPreparingSubmitFmt = "📤 Preparando envío de '%s' a AssemblyAI..."
	msgUploading          = "⏳ Subiendo audio al servidor de transcripción..."
	msgSubmitted          = "⏱️ Tu archivo está en cola. Puede tomar 2-5 minutos dependiendo de la duración..."
	msgGenerating         = "¡Éxito! Generando notebook..."

	msgStatusQueued     = "⏱️ En cola de procesamiento. Tu transcripción iniciará pronto..."
	msgStatusProcessing = "🎙️ Transcribiendo tu audio. Esto puede tomar varios minutos..."
	msgStatusUnknown    = "⚙️ Procesando... Verificando estado cada 5 segundos..."

	msgNoAudioData   = "No hay datos de audio para procesar"
	msgNoAPIKey      = "clave de API del proveedor no configurada"
	msgProcessErrFmt = "Error en el proceso: %v"
	msgReadErrFmt    = "Error al leer archivo: %v"

	msgSuccessToastFmt = "¡Notebook de '%s' generado!"
	msgDeleted         = "Transcripción eliminada correctamente"
	msgDeleteLogin     = "Debes iniciar sesión para eliminar transcripciones."
	msgDeleteNotFound  = "Transcripción no encontrada o sin permisos."
	msgDeleteErrFmt    = "Error al eliminar: %v"
	msgLoadListErrFmt  = "Error cargando transcripciones: %v"
)

// statusMessage maps non-terminal provider statuses to progress messages.
// Unknown statuses get the generic message.
func statusMessage(s stt.Status) string {
	switch s {
	case stt.StatusQueued:
		return msgStatusQueued
	case stt.StatusProcessing:
		return msgStatusProcessing
	default:
		return msgStatusUnknown
	}
}
